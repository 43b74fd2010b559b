package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"  // register gif decoder
	_ "image/jpeg" // register jpeg decoder
	_ "image/png"  // register png decoder
	"os"

	"facegate/internal/adapters/embedder"
	"facegate/internal/core/embedding"
	"facegate/internal/platform/logger"
	str "facegate/internal/platform/strings"
	"facegate/internal/services/inference/domain"

	_ "golang.org/x/image/webp" // register webp decoder
)

// Process runs one job to a verdict. It never returns an error; every failure becomes a reason
func (s *Svc) Process(ctx context.Context, job domain.Job) domain.Verdict {
	start := s.now()
	v := s.evaluate(ctx, job)
	v.SavedAs = job.DisplayName
	v.SourceAddress = job.SourceAddress
	v.JobID = job.ID
	v.Threshold = s.cfg.Threshold
	v.ElapsedMS = s.now().Sub(start).Milliseconds()
	return v
}

func (s *Svc) evaluate(ctx context.Context, job domain.Job) domain.Verdict {
	// one snapshot per job so a reload mid-flight cannot mix model and centroid
	snap := s.deps.Identity.Current()
	if snap == nil {
		return errorVerdict("identity not loaded")
	}

	raw, err := os.ReadFile(job.ImagePath)
	if err != nil {
		return errorVerdict(err.Error())
	}
	if _, _, err := image.Decode(bytes.NewReader(raw)); err != nil {
		logger.C(ctx).Debug().Err(err).Str("saved_as", job.DisplayName).Msg("frame decode failed")
		return domain.Verdict{Reason: domain.ReasonBadDecode}
	}

	ectx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()
	live, err := s.deps.Embedder.Embed(ectx, raw, embedder.Hint{Model: snap.ModelName, Detector: snap.DetectorName})
	switch {
	case errors.Is(err, embedder.ErrNoFace):
		return domain.Verdict{Reason: domain.ReasonNoFace, Confidence: domain.Conf(0)}
	case errors.Is(err, embedder.ErrDecode):
		return domain.Verdict{Reason: domain.ReasonBadDecode}
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return errorVerdict("embedding timed out after " + s.cfg.EmbedTimeout.String())
	case err != nil:
		return errorVerdict(err.Error())
	case len(live) == 0:
		return domain.Verdict{Reason: domain.ReasonNoFace, Confidence: domain.Conf(0)}
	}

	if len(live) != snap.Dim {
		logger.C(ctx).Warn().Int("live_dim", len(live)).Int("identity_dim", snap.Dim).Msg("embedding dimension mismatch")
		return domain.Verdict{Reason: domain.ReasonDimMismatch, Confidence: domain.Conf(0)}
	}

	sim := embedding.Similarity(live, snap.Centroid)
	ok := embedding.Decide(sim, s.cfg.Threshold)
	reason := domain.ReasonNoMatch
	if ok {
		reason = domain.ReasonMatch
	}
	return domain.Verdict{Authorized: ok, Confidence: domain.Conf(sim), Reason: reason}
}

// errorVerdict builds an "error:<msg>" verdict with the message cut to 50 runes
func errorVerdict(msg string) domain.Verdict {
	return domain.Verdict{
		Reason:     domain.ReasonErrorPrefix + str.Truncate(msg, domain.ReasonErrorMaxLen),
		Confidence: domain.Conf(0),
	}
}
