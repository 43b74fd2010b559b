package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "facegate/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "info"},
		{"   nonsense   ", "info"},
	}
	for _, c := range cases {
		if got := parseLevel(c.in).String(); got != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestInit_Named_C(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "console",
		Service:      "facegate-test",
		Writer:       &buf,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	rv := Get().Sample(&zerolog.BasicSampler{N: 1})
	rv.Info().Msg("root-msg")

	nv := Named("inference").Sample(&zerolog.BasicSampler{N: 1})
	nv.Info().Msg("named-msg")

	ctx := WithJob(WithRequest(context.Background(), "req-123"), "job-42")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	cv.Info().Msg("ctx-msg")

	out := buf.String()
	for _, want := range []string{"root-msg", "named-msg", "ctx-msg", "inference", "req-123", "job-42", "facegate-test", "build="} {
		kit.MustContain(t, out, want)
	}
}

func TestWithRequest_EmptyLeavesContext(t *testing.T) {
	ctx := context.Background()
	if WithRequest(ctx, "") != ctx || WithJob(ctx, "") != ctx {
		t.Fatalf("empty ids must not wrap the context")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "svc-b" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
	if !strings.EqualFold(FromEnv().Level, "warn") {
		t.Fatalf("FromEnv must be repeatable")
	}
}
