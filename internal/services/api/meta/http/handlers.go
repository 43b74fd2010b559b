// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"facegate/internal/core/version"
	"facegate/internal/modkit/httpkit"
	iddom "facegate/internal/services/identity/domain"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	Identity    iddom.Provider
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/identity", h.identity)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"facegate-api"`
	Started string `json:"started"  example:"2026-10-01T13:00:00Z"`
	Now     string `json:"now"      example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"facegate-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// IdentityResponse describes the active identity snapshot
type IdentityResponse struct {
	Loaded     bool   `json:"loaded"               example:"true"`
	Engine     string `json:"engine,omitempty"     example:"deepface"`
	Model      string `json:"model,omitempty"      example:"Facenet"`
	Detector   string `json:"detector,omitempty"   example:"opencv"`
	Dim        int    `json:"dim,omitempty"        example:"128"`
	Samples    int    `json:"samples,omitempty"    example:"12"`
	Source     string `json:"source,omitempty"     example:"file:face_db.json"`
	LoadedAt   string `json:"loaded_at,omitempty"  example:"2026-10-01T13:00:00Z"`
	Generation uint64 `json:"generation,omitempty" example:"1"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	pg := ReadyCheck{Name: "pg", Status: "skipped"}
	if h.deps.PG != nil {
		pg.Status = "unknown"
		if p, ok := h.deps.PG.(Pinger); ok {
			pg.Status = "ok"
			if err := p.Ping(ctx); err != nil {
				pg.Status, pg.Error = "fail", err.Error()
			}
		}
	}

	id := ReadyCheck{Name: "identity", Status: "ok"}
	if h.deps.Identity == nil || h.deps.Identity.Current() == nil {
		id.Status, id.Error = "fail", "identity not loaded"
	}

	overall := "ok"
	if pg.Status == "fail" || id.Status == "fail" {
		overall = "fail"
	}
	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg, id},
		Now:    h.now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.now().Sub(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/identity Meta metaIdentity
// @Summary Active identity snapshot
// @Tags Meta
// @Produce json
// @Success 200 type IdentityResponse ok
// @Router /meta/identity [get]
func (h *handlers) identity(_ *http.Request) (any, error) {
	if h.deps.Identity == nil {
		return IdentityResponse{}, nil
	}
	s := h.deps.Identity.Current()
	if s == nil {
		return IdentityResponse{}, nil
	}
	return IdentityResponse{
		Loaded:     true,
		Engine:     s.EngineID,
		Model:      s.ModelName,
		Detector:   s.DetectorName,
		Dim:        s.Dim,
		Samples:    s.SampleCount,
		Source:     s.Source,
		LoadedAt:   s.LoadedAt.UTC().Format(time.RFC3339),
		Generation: s.Generation,
	}, nil
}
