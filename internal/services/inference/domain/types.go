// Package domain defines inference jobs, verdicts and the ports around the worker pool
package domain

import "time"

// Verdict reasons
const (
	ReasonMatch       = "match"
	ReasonNoMatch     = "no_match"
	ReasonNoFace      = "no_face"
	ReasonDimMismatch = "dim_mismatch"
	ReasonBadDecode   = "bad_decode"
	ReasonTest        = "test"

	// ReasonErrorPrefix prefixes provider and internal failures, e.g. "error:timeout"
	ReasonErrorPrefix = "error:"

	// ReasonErrorMaxLen bounds the message appended to ReasonErrorPrefix
	ReasonErrorMaxLen = 50
)

// Job is one queued frame awaiting inference
type Job struct {
	ID            string    `json:"id"`
	ImagePath     string    `json:"image_path"`
	DisplayName   string    `json:"display_name"`
	SourceAddress string    `json:"source_address"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// Verdict is the outcome of one job; it is what receivers and alerting consume.
// Confidence is nil when no score exists (bad_decode)
type Verdict struct {
	Authorized    bool     `json:"authorized"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Threshold     float64  `json:"threshold"`
	Reason        string   `json:"reason"`
	SavedAs       string   `json:"saved_as"`
	SourceAddress string   `json:"source_address,omitempty"`
	ElapsedMS     int64    `json:"elapsed_ms"`
	JobID         string   `json:"job_id,omitempty"`
}

// Score returns the confidence or 0 when absent
func (v Verdict) Score() float64 {
	if v.Confidence == nil {
		return 0
	}
	return *v.Confidence
}

// Conf is a helper for building verdicts with a confidence
func Conf(x float64) *float64 { return &x }

// Receipt is returned to the HTTP caller once a frame is stored and queued
type Receipt struct {
	OK       bool   `json:"ok"       example:"true"`
	Accepted bool   `json:"accepted" example:"true"`
	SavedAs  string `json:"saved_as" example:"20260101-120000-001-a1b2c3.jpg"`
	JobID    string `json:"job_id"   example:"5f1c9f0e-3c1e-4c8e-9a51-0c2f3e0e8d11"`
}

// Stats is a point-in-time view of the queue and worker pool
type Stats struct {
	Depth     int    `json:"depth"`
	Capacity  int    `json:"capacity"`
	Workers   int    `json:"workers"`
	InFlight  int64  `json:"in_flight"`
	Accepted  uint64 `json:"accepted"`
	Processed uint64 `json:"processed"`
	Dropped   uint64 `json:"dropped"`
	Failed    uint64 `json:"failed"`
	Closed    bool   `json:"closed"`
}
