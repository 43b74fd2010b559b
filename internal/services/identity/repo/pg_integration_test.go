//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"facegate/internal/modkit/repokit"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/store"
	"facegate/internal/services/identity/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestPGSource_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{
		Enabled:        true,
		URL:            dsn,
		MaxConns:       2,
		ConnectRetries: 20,
		PingTimeout:    3 * time.Second,
	}})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	repokit.MustGuard(ctx, st)
	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := Migrate(ctx, st.PG); err != nil {
		t.Fatalf("schema is not idempotent: %v", err)
	}

	src := repokit.MustBind(NewPG(""), st.PG)

	if _, err := src.Load(ctx); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("empty table: want config error, got %v", err)
	}

	rec := domain.Record{
		Engine: "deepface", ModelName: "Facenet", Detector: "opencv",
		EmbeddingDim: 3, NumSamples: 6, Centroid: []float64{0.1, 0.2, 0.3},
	}
	if err := src.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := src.Load(ctx)
	if err != nil || !reflect.DeepEqual(got, rec) {
		t.Fatalf("load after save: %+v %v", got, err)
	}

	rec.NumSamples = 9
	rec.Centroid = []float64{0.3, 0.2, 0.1}
	if err := src.Save(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err = src.Load(ctx)
	if err != nil || got.NumSamples != 9 || got.Centroid[0] != 0.3 {
		t.Fatalf("load after upsert: %+v %v", got, err)
	}

	n, err := store.Scalar[int64](ctx, st.PG, `SELECT count(*) FROM identities`)
	if err != nil || n != 1 {
		t.Fatalf("want a single row, got %d %v", n, err)
	}
}
