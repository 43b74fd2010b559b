package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "facegate/internal/platform/errors"
	phttp "facegate/internal/platform/net/http"
	"facegate/internal/platform/net/middleware"
	"facegate/internal/services/inference/domain"

	"github.com/go-chi/chi/v5"
)

type fakeIngest struct {
	err    error
	raw    []byte
	source string
}

func (f *fakeIngest) Ingest(_ context.Context, raw []byte, src string) (domain.Receipt, error) {
	f.raw, f.source = raw, src
	if f.err != nil {
		return domain.Receipt{}, f.err
	}
	return domain.Receipt{OK: true, Accepted: true, SavedAs: "x.jpg", JobID: "j1"}, nil
}

func (f *fakeIngest) Stats() domain.Stats { return domain.Stats{Depth: 1, Capacity: 20, Workers: 2} }

func router(f domain.IngestPort, maxBody int64) stdhttp.Handler {
	mux := chi.NewRouter()
	if maxBody > 0 {
		mux.Use(middleware.BodyLimit(maxBody))
	}
	Register(phttp.AdaptChi(mux), f)
	return mux
}

func post(h stdhttp.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(stdhttp.MethodPost, "/infer", bytes.NewReader(body))
	req.RemoteAddr = "192.168.1.50:41234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestInfer_Accepted(t *testing.T) {
	f := &fakeIngest{}
	rec := post(router(f, 0), []byte{0xff, 0xd8})
	if rec.Code != stdhttp.StatusAccepted {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var rc domain.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &rc); err != nil {
		t.Fatal(err)
	}
	if !rc.OK || !rc.Accepted || rc.SavedAs != "x.jpg" {
		t.Fatalf("receipt %+v", rc)
	}
	if f.source != "192.168.1.50" || len(f.raw) != 2 {
		t.Fatalf("ingest saw source %q raw %d", f.source, len(f.raw))
	}
}

func TestInfer_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   []byte
		err    error
		limit  int64
		status int
	}{
		{"empty", nil, nil, 0, stdhttp.StatusBadRequest},
		{"queue full", []byte("x"), perr.QueueFullf("inference: queue full (20)"), 0, stdhttp.StatusServiceUnavailable},
		{"storage", []byte("x"), perr.Storagef("frames: write"), 0, stdhttp.StatusInternalServerError},
		{"too large", bytes.Repeat([]byte("x"), 64), nil, 16, stdhttp.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(router(&fakeIngest{err: tc.err}, tc.limit), tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status %d want %d body %s", rec.Code, tc.status, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"ok":false`) {
				t.Fatalf("error envelope expected: %s", rec.Body.String())
			}
		})
	}
}

func TestStats(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&fakeIngest{}, 0).ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/stats", nil))
	if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), `"capacity":20`) {
		t.Fatalf("stats %d %s", rec.Code, rec.Body.String())
	}
}
