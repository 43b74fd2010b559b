package net

import (
	"net/http"

	perr "facegate/internal/platform/errors"
)

// Wire is the common envelope used by transports
// OK mirrors the boolean the sensor firmware checks before reading anything else
type Wire struct {
	OK         bool           `json:"ok"`
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func success(status int, data any, reqID string) (int, Wire) {
	return status, Wire{
		OK:         true,
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) { return success(http.StatusOK, data, reqID) }

// Accepted builds a 202 envelope for work that continues after the response
func Accepted(data any, reqID string) (int, Wire) { return success(http.StatusAccepted, data, reqID) }

// Error builds an error envelope
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
}
