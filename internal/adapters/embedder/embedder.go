// Package embedder defines the face embedding provider capability
package embedder

import (
	"context"
	"errors"
)

var (
	// ErrNoFace means the provider found no face in the image
	ErrNoFace = errors.New("embedder: no face detected")

	// ErrDecode means the provider could not decode the image
	ErrDecode = errors.New("embedder: image could not be decoded")
)

// Hint selects the model and detector the provider should use
type Hint struct {
	Model    string
	Detector string
}

// Embedder turns an encoded image into a face embedding.
// Failures other than ErrNoFace and ErrDecode are internal provider errors
type Embedder interface {
	Embed(ctx context.Context, image []byte, hint Hint) ([]float64, error)
}

// Func adapts a plain function to Embedder
type Func func(ctx context.Context, image []byte, hint Hint) ([]float64, error)

// Embed calls f
func (f Func) Embed(ctx context.Context, image []byte, hint Hint) ([]float64, error) {
	return f(ctx, image, hint)
}
