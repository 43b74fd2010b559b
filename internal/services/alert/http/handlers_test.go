package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "facegate/internal/platform/net/http"
	infdom "facegate/internal/services/inference/domain"

	"github.com/go-chi/chi/v5"
)

type recordTrigger struct{ got []infdom.Verdict }

func (r *recordTrigger) Trigger(v infdom.Verdict) { r.got = append(r.got, v) }

func TestTestAlert(t *testing.T) {
	rt := &recordTrigger{}
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), rt, 0.45)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/test_alert", nil))
	if rec.Code != stdhttp.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("response %d %s", rec.Code, rec.Body.String())
	}
	if len(rt.got) != 1 {
		t.Fatalf("trigger calls %d", len(rt.got))
	}
	v := rt.got[0]
	if v.Authorized || v.Reason != "test" || v.SavedAs != "latest.jpg" || v.Score() != 0.123 || v.Threshold != 0.45 {
		t.Fatalf("payload %+v", v)
	}
}
