// Package enroll collects embeddings for a directory of authorized face images
package enroll

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"facegate/internal/adapters/embedder"
	"facegate/internal/core/embedding"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
)

// Result is a per-file outcome
type Result struct {
	File   string
	Status string // ok no_face fail
	Err    error
}

// Report summarizes a batch
type Report struct {
	Samples [][]float64
	Results []Result
}

// Kept is the number of usable samples
func (r Report) Kept() int { return len(r.Samples) }

// IsImage reports whether name has an enrollable extension
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Collect embeds every image in dir in name order. Unusable files are skipped and
// recorded in the report; only a missing or unreadable directory is an error
func Collect(ctx context.Context, emb embedder.Embedder, dir string, hint embedder.Hint) (Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Report{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "enroll: read dir %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	log := logger.Named("enroll")
	var rep Report
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			rep.Results = append(rep.Results, Result{File: name, Status: "fail", Err: err})
			log.Warn().Err(err).Str("file", name).Msg("skip: bad read")
			continue
		}
		vec, err := emb.Embed(ctx, raw, hint)
		switch {
		case errors.Is(err, embedder.ErrNoFace) || (err == nil && len(vec) == 0):
			rep.Results = append(rep.Results, Result{File: name, Status: "no_face", Err: err})
			log.Warn().Str("file", name).Msg("no face")
			continue
		case err != nil:
			rep.Results = append(rep.Results, Result{File: name, Status: "fail", Err: err})
			log.Warn().Err(err).Str("file", name).Msg("embed failed")
			continue
		}
		if n := len(rep.Samples); n > 0 && len(rep.Samples[0]) != len(vec) {
			err := perr.InvalidArgf("enroll: dim %d differs from %d", len(vec), len(rep.Samples[0]))
			rep.Results = append(rep.Results, Result{File: name, Status: "fail", Err: err})
			log.Warn().Err(err).Str("file", name).Msg("skip: dimension")
			continue
		}
		rep.Samples = append(rep.Samples, embedding.Normalize(vec))
		rep.Results = append(rep.Results, Result{File: name, Status: "ok"})
		log.Info().Str("file", name).Msg("ok")
	}
	return rep, nil
}
