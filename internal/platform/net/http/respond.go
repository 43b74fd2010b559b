// Package http provides the router facade, server and response helpers
package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strconv"

	"facegate/internal/platform/logger"
	pnet "facegate/internal/platform/net"
)

// Envelope is the standard response body for endpoints that do not define their own shape
type Envelope = pnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Debug().Err(err).Msg("encode response")
	}
}

// Text writes a text/plain body
func Text(w stdhttp.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Bytes writes a binary body with the given content type
func Bytes(w stdhttp.ResponseWriter, contentType string, b []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write(b)
}

// RespondOK writes a 200 envelope with data
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	status, body := pnet.OK(data, pnet.RequestID(r.Context()))
	JSON(w, status, body)
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, body := pnet.Error(err, pnet.RequestID(r.Context()))
	JSON(w, status, body)
}

// Response is a functional response object for return-style handlers
// Raw bodies are written as-is instead of being wrapped in the envelope
type Response struct {
	Status int
	Body   any
	Raw    bool
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if resp.Raw {
		JSON(w, status, resp.Body)
		return
	}
	body := Envelope{
		OK:         true,
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
		Data:       resp.Body,
	}
	JSON(w, status, body)
}

// OK returns a 200 enveloped response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Raw returns a response whose body is written without the envelope
func Raw(status int, body any) Response { return Response{Status: status, Body: body, Raw: true} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response { return Response{Body: err} }
