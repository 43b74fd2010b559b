// Package repo provides identity record sources: a JSON file and a Postgres table
package repo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	perr "facegate/internal/platform/errors"
	"facegate/internal/services/identity/domain"
)

// File stores the record as a JSON document on disk
type File struct{ path string }

// NewFile returns a file source rooted at path
func NewFile(path string) *File { return &File{path: path} }

// Name identifies the source in logs and snapshots
func (f *File) Name() string { return "file:" + f.path }

// Load reads and decodes the record; unreadable or malformed files are config errors
func (f *File) Load(_ context.Context) (domain.Record, error) {
	var rec domain.Record
	b, err := os.ReadFile(f.path)
	if err != nil {
		return rec, perr.Wrapf(err, perr.ErrorCodeConfig, "identity: read %s", f.path)
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, perr.Wrapf(err, perr.ErrorCodeConfig, "identity: decode %s", f.path)
	}
	return rec, nil
}

// Save writes the record via a temp file and rename so readers never see a partial file
func (f *File) Save(_ context.Context, rec domain.Record) error {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeConfig, "identity: encode record")
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "identity: mkdir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".face_db-*.json")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeStorage, "identity: create temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return perr.Wrap(err, perr.ErrorCodeStorage, "identity: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeStorage, "identity: close temp file")
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorage, "identity: replace %s", f.path)
	}
	return nil
}
