package store

import (
	"context"
	"errors"
	"testing"

	perr "facegate/internal/platform/errors"
)

func TestExecOne(t *testing.T) {
	ctx := context.Background()
	if err := ExecOne(ctx, &fakeQuerier{affected: 1}, "update x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ExecOne(ctx, &fakeQuerier{affected: 0}, "update x"); err == nil {
		t.Fatalf("expected error for zero rows")
	}
	boom := errors.New("boom")
	if err := ExecOne(ctx, &fakeQuerier{err: boom}, "update x"); !errors.Is(err, boom) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
}

func TestScalar(t *testing.T) {
	n, err := Scalar[int](context.Background(), &fakeQuerier{rows: [][]any{{7}}}, "select 7")
	if err != nil || n != 7 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
	if _, err := Scalar[int](context.Background(), &fakeQuerier{}, "select"); err == nil {
		t.Fatalf("expected error on empty result")
	}
}

func TestOne(t *testing.T) {
	scan := func(r Row) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	}
	ctx := context.Background()

	got, err := One(ctx, &fakeQuerier{rows: [][]any{{"authorized"}}}, scan, "select name")
	if err != nil || got != "authorized" {
		t.Fatalf("One = %q, %v", got, err)
	}

	if _, err := One(ctx, &fakeQuerier{}, scan, "select name"); !perr.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := One(ctx, &fakeQuerier{rows: [][]any{{"a"}, {"b"}}}, scan, "select name"); err == nil {
		t.Fatalf("expected error for more than one row")
	}
}
