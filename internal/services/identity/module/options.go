package module

import (
	"facegate/internal/platform/config"
	"facegate/internal/services/identity/domain"
)

// Source kinds
const (
	SourceFile = "file"
	SourcePG   = "pg"
)

// Options controls where the identity record lives and the metadata defaults
type Options struct {
	Source          string // file or pg
	Path            string // JSON file path for the file source
	Name            string // row key for the pg source
	DefaultModel    string
	DefaultDetector string
	MinSamples      int
}

// FromConfig reads IDENTITY_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("IDENTITY_")
	return Options{
		Source:          ic.MayEnum("SOURCE", SourceFile, SourceFile, SourcePG),
		Path:            ic.MayString("PATH", "face_db.json"),
		Name:            ic.MayString("NAME", domain.DefaultName),
		DefaultModel:    ic.MayString("DEFAULT_MODEL", domain.DefaultModel),
		DefaultDetector: ic.MayString("DEFAULT_DETECTOR", domain.DefaultDetector),
		MinSamples:      ic.MayPositiveInt("MIN_SAMPLES", 5),
	}
}

func (o Options) merge(over Options) Options {
	if over.Source != "" {
		o.Source = over.Source
	}
	if over.Path != "" {
		o.Path = over.Path
	}
	if over.Name != "" {
		o.Name = over.Name
	}
	if over.DefaultModel != "" {
		o.DefaultModel = over.DefaultModel
	}
	if over.DefaultDetector != "" {
		o.DefaultDetector = over.DefaultDetector
	}
	if over.MinSamples > 0 {
		o.MinSamples = over.MinSamples
	}
	return o
}
