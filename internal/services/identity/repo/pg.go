package repo

import (
	"context"

	"facegate/internal/modkit/repokit"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/store"
	"facegate/internal/services/identity/domain"
)

// Schema creates the identities table; one row per enrolled name
const Schema = `
CREATE TABLE IF NOT EXISTS identities (
	name          text PRIMARY KEY,
	engine        text NOT NULL DEFAULT '',
	model_name    text NOT NULL DEFAULT '',
	detector      text NOT NULL DEFAULT '',
	embedding_dim integer NOT NULL DEFAULT 0,
	num_samples   integer NOT NULL DEFAULT 0,
	centroid      double precision[] NOT NULL,
	updated_at    timestamptz NOT NULL DEFAULT now()
)`

type (
	// PG is a Postgres binder for the identity source
	PG      struct{ name string }
	queries struct {
		q    repokit.Queryer
		name string
	}
)

// NewPG returns a binder for the row keyed by name
func NewPG(name string) repokit.Binder[domain.Source] {
	if name == "" {
		name = domain.DefaultName
	}
	return PG{name: name}
}

// Bind attaches a Queryer to the Postgres implementation
func (p PG) Bind(q repokit.Queryer) domain.Source { return &queries{q: q, name: p.name} }

// EnsureSchema creates the identities table if it is missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, Schema); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "identity: ensure schema")
	}
	return nil
}

// Migrate applies the identity schema inside a transaction
func Migrate(ctx context.Context, tx repokit.TxRunner) error {
	return repokit.WithTx(ctx, tx, func(q repokit.Queryer) error { return EnsureSchema(ctx, q) })
}

func (r *queries) Name() string { return "pg:identities/" + r.name }

// Load reads the row; a missing row is a config error like a missing file
func (r *queries) Load(ctx context.Context) (domain.Record, error) {
	const sql = `
SELECT engine, model_name, detector, embedding_dim, num_samples, centroid
FROM identities
WHERE name = $1`
	rec, err := store.One(ctx, r.q, func(row store.Row) (domain.Record, error) {
		var rec domain.Record
		err := row.Scan(&rec.Engine, &rec.ModelName, &rec.Detector, &rec.EmbeddingDim, &rec.NumSamples, &rec.Centroid)
		return rec, err
	}, sql, r.name)
	if err != nil {
		if perr.Is(err, perr.ErrNotFound) {
			return rec, perr.Configf("identity: no row named %q", r.name)
		}
		return rec, perr.Wrap(err, perr.ErrorCodeConfig, "identity: query identities")
	}
	return rec, nil
}

// Save upserts the row
func (r *queries) Save(ctx context.Context, rec domain.Record) error {
	const sql = `
INSERT INTO identities (name, engine, model_name, detector, embedding_dim, num_samples, centroid, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (name) DO UPDATE SET
	engine = EXCLUDED.engine,
	model_name = EXCLUDED.model_name,
	detector = EXCLUDED.detector,
	embedding_dim = EXCLUDED.embedding_dim,
	num_samples = EXCLUDED.num_samples,
	centroid = EXCLUDED.centroid,
	updated_at = now()`
	err := store.ExecOne(ctx, r.q, sql, r.name, rec.Engine, rec.ModelName, rec.Detector,
		rec.EmbeddingDim, rec.NumSamples, rec.Centroid)
	return perr.WrapIf(err, perr.ErrorCodeDB, "identity: upsert identities")
}
