// Package domain defines the identity record, the in-memory snapshot and the identity ports
package domain

import "time"

// Defaults filled in when a record leaves metadata blank
const (
	DefaultEngine   = "deepface"
	DefaultModel    = "Facenet"
	DefaultDetector = "opencv"

	// DefaultName keys the single enrolled identity in stores that can hold several rows
	DefaultName = "authorized"
)

// Record is the persisted identity as the enrollment tool writes it
type Record struct {
	Engine       string    `json:"engine"`
	ModelName    string    `json:"model_name"`
	Detector     string    `json:"detector"`
	EmbeddingDim int       `json:"embedding_dim" validate:"min=0"`
	NumSamples   int       `json:"num_samples" validate:"min=0"`
	Centroid     []float64 `json:"authorized_centroid" validate:"required,min=1"`
}

// Snapshot is the validated, unit-norm view workers read.
// A Snapshot is immutable once published; reload publishes a new one
type Snapshot struct {
	EngineID     string
	ModelName    string
	DetectorName string
	Dim          int
	SampleCount  int
	Centroid     []float64

	Source     string
	LoadedAt   time.Time
	Generation uint64
}
