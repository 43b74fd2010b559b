package module

import (
	"time"

	"facegate/internal/core/embedding"
	"facegate/internal/platform/config"
)

// Options controls the queue, the pool, the matcher and the embedding provider client
type Options struct {
	QueueCapacity int
	Workers       int
	Threshold     float64
	EmbedTimeout  time.Duration

	// Embedding provider
	EmbedderURL      string
	EmbedderTimeout  time.Duration
	EnforceDetection bool
	EmbedderRetries  int
}

// FromConfig reads INFERENCE_* and EMBEDDER_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("INFERENCE_")
	ec := cfg.Prefix("EMBEDDER_")
	return Options{
		QueueCapacity:    ic.MayPositiveInt("QUEUE_CAPACITY", 20),
		Workers:          ic.MayPositiveInt("WORKERS", 2),
		Threshold:        ic.MayFloat64("THRESHOLD", embedding.DefaultThreshold),
		EmbedTimeout:     ic.MayDuration("EMBED_TIMEOUT", 30*time.Second),
		EmbedderURL:      ec.MayString("URL", "http://127.0.0.1:5005"),
		EmbedderTimeout:  ec.MayDuration("TIMEOUT", 30*time.Second),
		EnforceDetection: ec.MayBool("ENFORCE_DETECTION", true),
		EmbedderRetries:  ec.MayInt("MAX_RETRIES", 2),
	}
}

// merge applies non-zero fields of over; a zero threshold comes from INFERENCE_THRESHOLD, not overrides
func (o Options) merge(over Options) Options {
	if over.QueueCapacity != 0 {
		o.QueueCapacity = over.QueueCapacity
	}
	if over.Workers != 0 {
		o.Workers = over.Workers
	}
	if over.Threshold != 0 {
		o.Threshold = over.Threshold
	}
	if over.EmbedTimeout != 0 {
		o.EmbedTimeout = over.EmbedTimeout
	}
	if over.EmbedderURL != "" {
		o.EmbedderURL = over.EmbedderURL
	}
	if over.EmbedderTimeout != 0 {
		o.EmbedderTimeout = over.EmbedderTimeout
	}
	if over.EmbedderRetries != 0 {
		o.EmbedderRetries = over.EmbedderRetries
	}
	return o
}
