package module

import "facegate/internal/platform/config"

// Options controls the uploads directory
type Options struct {
	Dir       string
	ListLimit int
}

// FromConfig reads UPLOADS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	uc := cfg.Prefix("UPLOADS_")
	return Options{
		Dir:       uc.MayString("DIR", "uploads"),
		ListLimit: uc.MayPositiveInt("LIST_LIMIT", 50),
	}
}
