// Package http serves the stored frames
package http

import (
	stdhttp "net/http"

	"facegate/internal/modkit/httpkit"
	phttp "facegate/internal/platform/net/http"
)

// Frames is the read side of the uploads store
type Frames interface {
	Latest() ([]byte, error)
	List(limit int) ([]string, error)
}

// Register mounts the frame routes
func Register(r httpkit.Router, f Frames, listLimit int) {
	h := &handlers{frames: f, limit: listLimit}
	r.Get("/latest.jpg", h.latest)
	httpkit.Get(r, "/files", h.files)
}

type handlers struct {
	frames Frames
	limit  int
}

// FilesResponse lists recent frame names in ascending order
type FilesResponse struct {
	Files []string `json:"files" example:"20260101-120000-001-a1b2c3.jpg"`
}

// swagger:route GET /latest.jpg Frames latestFrame
// @Summary Most recent uploaded frame
// @Tags Frames
// @Produce image/jpeg
// @Success 200 {file} binary "jpeg bytes"
// @Failure 404 {object} httpkit.Envelope "no frame yet"
// @Router /latest.jpg [get]
func (h *handlers) latest(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	b, err := h.frames.Latest()
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.Bytes(w, "image/jpeg", b)
}

// swagger:route GET /files Frames listFiles
// @Summary Recent frame names
// @Tags Frames
// @Produce json
// @Success 200 {object} FilesResponse "ok"
// @Router /files [get]
func (h *handlers) files(_ *stdhttp.Request) (any, error) {
	names, err := h.frames.List(h.limit)
	if err != nil {
		return nil, err
	}
	return httpkit.Raw(stdhttp.StatusOK, FilesResponse{Files: names}), nil
}
