// Package http provides the ingestion endpoint and queue stats
package http

import (
	"errors"
	"io"
	stdhttp "net/http"

	"facegate/internal/modkit/httpkit"
	perr "facegate/internal/platform/errors"
	pnet "facegate/internal/platform/net"
	"facegate/internal/services/inference/domain"
)

// Register mounts the inference routes
func Register(r httpkit.Router, s domain.IngestPort) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/infer", h.infer)
	httpkit.Get(r, "/stats", h.stats)
}

type handlers struct{ svc domain.IngestPort }

// swagger:route POST /infer Inference infer
// @Summary Submit a frame for face verification
// @Tags Inference
// @Accept image/jpeg
// @Produce json
// @Param frame body string true "raw image bytes"
// @Success 202 {object} domain.Receipt "accepted"
// @Failure 400 {object} httpkit.Envelope "empty body"
// @Failure 500 {object} httpkit.Envelope "frame could not be stored"
// @Failure 503 {object} httpkit.Envelope "queue full"
// @Router /infer [post]
func (h *handlers) infer(r *stdhttp.Request) (any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *stdhttp.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, perr.Validationf("body exceeds %d bytes", mbe.Limit)
		}
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read body")
	}
	if len(raw) == 0 {
		return nil, perr.EmptyBodyf("empty body")
	}
	rc, err := h.svc.Ingest(r.Context(), raw, pnet.SourceAddress(r))
	if err != nil {
		return nil, err
	}
	return httpkit.Raw(stdhttp.StatusAccepted, rc), nil
}

// swagger:route GET /stats Inference stats
// @Summary Queue and worker pool counters
// @Tags Inference
// @Produce json
// @Success 200 {object} domain.Stats "ok"
// @Router /stats [get]
func (h *handlers) stats(_ *stdhttp.Request) (any, error) {
	return h.svc.Stats(), nil
}
