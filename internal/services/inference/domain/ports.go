package domain

import "context"

// Publisher receives every verdict; Publish must not block the caller
type Publisher interface {
	Publish(v Verdict)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(v Verdict)

// Publish calls f
func (f PublisherFunc) Publish(v Verdict) { f(v) }

// FrameSaver persists an uploaded frame and returns its name and path
type FrameSaver interface {
	Save(raw []byte) (name, path string, err error)
}

// EnqueuePort accepts jobs without blocking
type EnqueuePort interface {
	Enqueue(job Job) error
}

// IngestPort stores a frame and queues it
type IngestPort interface {
	Ingest(ctx context.Context, raw []byte, sourceAddress string) (Receipt, error)
	Stats() Stats
}

// WorkerPort runs the worker pool until ctx is cancelled
type WorkerPort interface {
	Run(ctx context.Context) error
}
