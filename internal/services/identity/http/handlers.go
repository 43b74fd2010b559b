// Package http provides http transport for the identity store
package http

import (
	stdhttp "net/http"

	"facegate/internal/modkit/httpkit"
	"facegate/internal/services/identity/domain"
)

// Register mounts the identity routes
func Register(r httpkit.Router, s domain.ReloadPort) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/reload_db", h.reload)
}

type handlers struct{ svc domain.ReloadPort }

// ReloadResponse reports the freshly loaded identity
type ReloadResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Samples int    `json:"samples" example:"12"`
	Dim     int    `json:"dim"     example:"128"`
	Model   string `json:"model"   example:"Facenet"`
}

// swagger:route POST /reload_db Identity reloadDB
// @Summary Reload the enrolled identity from its source
// @Tags Identity
// @Produce json
// @Success 200 {object} ReloadResponse "ok"
// @Failure 500 {object} httpkit.Envelope "identity load failed"
// @Router /reload_db [post]
func (h *handlers) reload(r *stdhttp.Request) (any, error) {
	snap, err := h.svc.Reload(r.Context())
	if err != nil {
		return nil, err
	}
	return httpkit.Raw(stdhttp.StatusOK, ReloadResponse{
		OK:      true,
		Samples: snap.SampleCount,
		Dim:     snap.Dim,
		Model:   snap.ModelName,
	}), nil
}
