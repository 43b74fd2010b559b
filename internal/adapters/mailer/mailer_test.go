package mailer

import (
	"context"
	"errors"
	"testing"

	perr "facegate/internal/platform/errors"
	kit "facegate/internal/platform/testkit"

	"github.com/wneessen/go-mail"
)

func valid() Options {
	return Options{
		Username: "owner@example.com",
		Password: "abcd efgh ijkl mnop",
		To:       []string{"alerts@example.org"},
	}
}

func TestNew_DefaultsAndPassword(t *testing.T) {
	m := New(valid())
	if !m.Enabled() {
		t.Fatalf("expected enabled, reason %q", m.DisabledReason())
	}
	if m.opts.Password != "abcdefghijklmnop" {
		t.Fatalf("spaces not stripped: %q", m.opts.Password)
	}
	if m.opts.From != "owner@example.com" || m.opts.StartTLSPort != 587 || m.opts.ImplicitPort != 465 || m.opts.Host != "smtp.gmail.com" {
		t.Fatalf("defaults %+v", m.opts)
	}
}

func TestNew_DisabledConfigs(t *testing.T) {
	cases := map[string]func(*Options){
		"placeholder password": func(o *Options) { o.Password = "PASTE_APP_PASSWORD" },
		"empty password":       func(o *Options) { o.Password = "  " },
		"bad username":         func(o *Options) { o.Username = "owner" },
		"no recipients":        func(o *Options) { o.To = nil },
		"bad recipient":        func(o *Options) { o.To = []string{"alerts.example.org"} },
	}
	for name, mut := range cases {
		t.Run(name, func(t *testing.T) {
			o := valid()
			mut(&o)
			m := New(o)
			if m.Enabled() {
				t.Fatalf("expected disabled")
			}
			calls := 0
			m.dial = func(context.Context, *mail.Msg, ...mail.Option) error { calls++; return nil }
			if err := m.Send(context.Background(), "s", "b", ""); !perr.IsCode(err, perr.ErrorCodeDisabled) {
				t.Fatalf("want disabled, got %v", err)
			}
			if calls != 0 {
				t.Fatalf("disabled mailer dialed")
			}
		})
	}
}

func TestSend_FallsBackToImplicitTLS(t *testing.T) {
	m := New(valid())
	calls := 0
	m.dial = func(_ context.Context, msg *mail.Msg, _ ...mail.Option) error {
		calls++
		if msg == nil {
			t.Fatalf("nil message")
		}
		if calls == 1 {
			return errors.New("starttls refused")
		}
		return nil
	}
	img := kit.WriteFile(t, t.TempDir(), "latest.jpg", []byte{0xff, 0xd8})
	if err := m.Send(context.Background(), "🚨 Smart_Device: Intruder", "caption", img); err != nil {
		t.Fatalf("send: %v", err)
	}
	if calls != 2 {
		t.Fatalf("want 2 attempts, got %d", calls)
	}
}

func TestSend_StartTLSSuccessSkipsFallback(t *testing.T) {
	m := New(valid())
	calls := 0
	m.dial = func(context.Context, *mail.Msg, ...mail.Option) error { calls++; return nil }
	if err := m.Send(context.Background(), "s", "b", "/nonexistent/latest.jpg"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if calls != 1 {
		t.Fatalf("want 1 attempt, got %d", calls)
	}
}

func TestSend_BothFail(t *testing.T) {
	m := New(valid())
	m.dial = func(context.Context, *mail.Msg, ...mail.Option) error { return errors.New("auth failed") }
	err := m.Send(context.Background(), "s", "b", "")
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
	kit.MustContain(t, err.Error(), "587")
}
