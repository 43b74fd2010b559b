// Package modkit provides module wiring and core deps
package modkit

import (
	"facegate/internal/modkit/repokit"
	"facegate/internal/platform/config"
	"facegate/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// PG is nil unless the Postgres identity source is enabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}

// HasPG reports whether a Postgres seam is wired
func (d Deps) HasPG() bool { return d.PG != nil }
