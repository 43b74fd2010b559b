package domain

import "context"

// Source reads and writes the persisted identity record
type Source interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Name() string
}

// Provider hands workers the current snapshot without locking
type Provider interface {
	Current() *Snapshot
}

// ReloadPort reloads the record and swaps it in atomically
type ReloadPort interface {
	Reload(ctx context.Context) (*Snapshot, error)
}

// EnrollPort builds a record from raw sample embeddings and persists it
type EnrollPort interface {
	Enroll(ctx context.Context, samples [][]float64, meta Record) (Record, error)
}
