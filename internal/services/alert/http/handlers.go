// Package http exposes the manual alert trigger
package http

import (
	stdhttp "net/http"

	"facegate/internal/modkit/httpkit"
	infdom "facegate/internal/services/inference/domain"
)

// Triggerer starts a detached alert dispatch
type Triggerer interface {
	Trigger(v infdom.Verdict)
}

// Register mounts the alert routes
func Register(r httpkit.Router, t Triggerer, threshold float64) {
	h := &handlers{t: t, threshold: threshold}
	httpkit.Get(r, "/test_alert", h.testAlert)
}

type handlers struct {
	t         Triggerer
	threshold float64
}

// TestAlertResponse acknowledges the trigger; delivery happens in the background
type TestAlertResponse struct {
	OK bool `json:"ok" example:"true"`
}

// swagger:route GET /test_alert Alert testAlert
// @Summary Fire a synthetic intruder alert through the normal dispatcher
// @Tags Alert
// @Produce json
// @Success 200 {object} TestAlertResponse "ok"
// @Router /test_alert [get]
func (h *handlers) testAlert(_ *stdhttp.Request) (any, error) {
	h.t.Trigger(infdom.Verdict{
		Authorized: false,
		Confidence: infdom.Conf(0.123),
		Threshold:  h.threshold,
		Reason:     infdom.ReasonTest,
		SavedAs:    "latest.jpg",
	})
	return httpkit.Raw(stdhttp.StatusOK, TestAlertResponse{OK: true}), nil
}
