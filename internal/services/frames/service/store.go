// Package service persists uploaded frames on the local filesystem
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	perr "facegate/internal/platform/errors"

	"github.com/google/uuid"
)

// LatestName is the copy of the most recent upload that /latest.jpg serves
const LatestName = "latest.jpg"

// DefaultListLimit is how many names List returns when limit <= 0
const DefaultListLimit = 50

// Store owns the uploads directory
type Store struct {
	dir string
	now func() time.Time
	id  func() string
}

// New returns a store rooted at dir; the directory is created if missing
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "frames: create %s", dir)
	}
	return &Store{dir: dir, now: time.Now, id: shortID}, nil
}

func shortID() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:6] }

// Dir returns the uploads directory
func (s *Store) Dir() string { return s.dir }

// Name builds a unique frame name: YYYYMMDD-HHMMSS-<ms>-<6 hex>.jpg
func (s *Store) Name() string {
	t := s.now()
	return fmt.Sprintf("%s-%03d-%s.jpg", t.Format("20060102-150405"), t.Nanosecond()/int(time.Millisecond), s.id())
}

// Save writes raw under a fresh name and refreshes latest.jpg.
// It returns the name and full path; any write failure is a storage error
func (s *Store) Save(raw []byte) (name, path string, err error) {
	if len(raw) == 0 {
		return "", "", perr.EmptyBodyf("frames: empty frame")
	}
	name = s.Name()
	path = filepath.Join(s.dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", "", perr.Wrapf(err, perr.ErrorCodeStorage, "frames: write %s", name)
	}
	if err := writeAtomic(filepath.Join(s.dir, LatestName), raw); err != nil {
		return "", "", perr.Wrap(err, perr.ErrorCodeStorage, "frames: refresh latest")
	}
	return name, path, nil
}

// writeAtomic replaces dst so concurrent readers never see a half-written file
func writeAtomic(dst string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".latest-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// Path returns the full path for a frame name; names with path elements are rejected
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", perr.InvalidArgf("frames: invalid name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Read returns the bytes of the file at path
func (s *Store) Read(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFoundf("frames: %s not found", filepath.Base(path))
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "frames: read %s", filepath.Base(path))
	}
	return b, nil
}

// Latest returns the most recent frame; not found when nothing was uploaded yet
func (s *Store) Latest() ([]byte, error) {
	return s.Read(filepath.Join(s.dir, LatestName))
}

// Exists reports whether name is a regular file in the uploads directory
func (s *Store) Exists(name string) bool {
	p, err := s.Path(name)
	if err != nil {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// List returns the last limit .jpg names in ascending order
func (s *Store) List(limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "frames: list %s", s.dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".jpg") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[len(names)-limit:]
	}
	return names, nil
}
