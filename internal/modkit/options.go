package modkit

import (
	"net/http"

	phttp "facegate/internal/platform/net/http"
)

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(phttp.Router)
}

// WithName sets a module name used in logs and registry
func WithName(name string) Option { return func(c *buildCfg) { c.name = name } }

// WithPrefix mounts a module under a path prefix; empty mounts at the root
func WithPrefix(prefix string) Option { return func(c *buildCfg) { c.prefix = prefix } }

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts exposes the module port set
func WithPorts[T any](p T) Option { return func(c *buildCfg) { c.ports = p } }

// WithRegister sets the function that attaches endpoints to the module router
func WithRegister(fn func(phttp.Router)) Option { return func(c *buildCfg) { c.register = fn } }
