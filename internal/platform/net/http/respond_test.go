package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "facegate/internal/platform/errors"
	phttp "facegate/internal/platform/net/http"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHandle_EnvelopeOK(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.OK(map[string]int{"depth": 3}) })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	m := decode(t, rec)
	if m["ok"] != true || m["status_code"].(float64) != 200 {
		t.Fatalf("envelope mismatch: %v", m)
	}
	if m["data"].(map[string]any)["depth"].(float64) != 3 {
		t.Fatalf("data mismatch: %v", m)
	}
}

func TestHandle_Raw(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Raw(http.StatusAccepted, map[string]any{"ok": true, "accepted": true})
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/infer", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status %d", rec.Code)
	}
	m := decode(t, rec)
	if _, wrapped := m["status_code"]; wrapped || m["accepted"] != true {
		t.Fatalf("raw body should not be wrapped: %v", m)
	}
}

func TestHandle_ErrorMapped(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(perr.QueueFullf("queue full")) })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/infer", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
	m := decode(t, rec)
	if m["ok"] != false || m["error"] != "queue full" {
		t.Fatalf("error envelope mismatch: %v", m)
	}
}

func TestHandle_Headers(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Body: "x", Header: http.Header{"X-Test": {"1"}}}
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Test") != "1" || rec.Code != http.StatusOK {
		t.Fatalf("header/status mismatch: %v %d", rec.Header(), rec.Code)
	}
}

func TestTextAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.Text(rec, http.StatusOK, "pong")
	if rec.Body.String() != "pong" || rec.Header().Get("Content-Type") != "text/plain; charset=utf-8" {
		t.Fatalf("text mismatch: %q %v", rec.Body.String(), rec.Header())
	}

	rec = httptest.NewRecorder()
	phttp.Bytes(rec, "image/jpeg", []byte{0xff, 0xd8})
	if rec.Header().Get("Content-Type") != "image/jpeg" || rec.Header().Get("Content-Length") != "2" {
		t.Fatalf("bytes headers mismatch: %v", rec.Header())
	}
}

func TestRespondError_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondError(rec, httptest.NewRequest(http.MethodGet, "/latest.jpg", nil), perr.NotFoundf("no frame yet"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}
