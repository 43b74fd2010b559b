// Package store provides the optional Postgres backend behind small query seams
package store

import (
	"context"
	"errors"

	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
)

// Store is the facade for optional backends
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// PG is the postgres sql seam, nil when disabled
	PG TxRunner
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Option mutates Store during Open
type Option func(*Store)

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option { return func(s *Store) { s.Log = log } }

// openPGFn is a seam so Open can be tested without a database
var openPGFn = openPG

// Open constructs a Store with the requested backends
// backends not enabled in cfg remain nil on the Store
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		o(s)
	}
	if !cfg.PG.Enabled {
		return s, nil
	}
	if cfg.PG.URL == "" {
		return nil, perr.Configf("store: postgres enabled without a url")
	}
	pg, err := openPGFn(ctx, cfg.PG, s)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "store: open postgres")
	}
	s.PG = pg
	return s, nil
}

// Guard verifies all configured seams
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "pg ping")
		}
	}
	return nil
}

// Close closes all initialized backends; nil backends are ignored
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
