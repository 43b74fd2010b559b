package store

import (
	"context"
	"errors"
	"testing"

	"facegate/internal/platform/config"
	perr "facegate/internal/platform/errors"
	kit "facegate/internal/platform/testkit"
)

func TestOpen_Disabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PG != nil {
		t.Fatalf("PG should stay nil when disabled")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard on empty store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close on empty store: %v", err)
	}
}

func TestOpen_EnabledWithoutURL(t *testing.T) {
	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true}})
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestOpen_UsesOpener(t *testing.T) {
	kit.Serial(t)
	fq := &fakeQuerier{}
	kit.Swap(t, &openPGFn, func(context.Context, PGConfig, *Store) (TxRunner, error) { return fq, nil })

	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "postgres://x"}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	fq.pingErr = errors.New("down")
	if err := s.Guard(context.Background()); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error from Guard, got %v", err)
	}
	if err := s.Close(); err != nil || !fq.closed {
		t.Fatalf("Close did not reach the backend: %v", err)
	}
}

func TestOpen_OpenerFailureWrapped(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &openPGFn, func(context.Context, PGConfig, *Store) (TxRunner, error) {
		return nil, errors.New("refused")
	})
	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "postgres://x"}})
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_ENABLED", "true")
	t.Setenv("SERVICE_PGSQL_URL", "postgres://u:p@db/facegate")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "8")

	c := FromConfig(config.New().Prefix("SERVICE_PGSQL_"))
	if !c.PG.Enabled || c.PG.URL != "postgres://u:p@db/facegate" || c.PG.MaxConns != 8 {
		t.Fatalf("FromConfig mismatch: %+v", c.PG)
	}
	if c.PG.ConnectRetries != 10 || c.PG.PingTimeout.Seconds() != 3 {
		t.Fatalf("defaults mismatch: %+v", c.PG)
	}
}
