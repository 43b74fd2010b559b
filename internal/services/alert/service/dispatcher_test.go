package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	perr "facegate/internal/platform/errors"
	kit "facegate/internal/platform/testkit"
	"facegate/internal/services/alert/domain"
	infdom "facegate/internal/services/inference/domain"
)

type fakeTG struct {
	mu       sync.Mutex
	enabled  bool
	textErr  error
	photoErr error
	texts    []string
	photos   []string
}

func (f *fakeTG) Enabled() bool { return f.enabled }

func (f *fakeTG) SendMessage(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.textErr
}

func (f *fakeTG) SendPhoto(_ context.Context, _ string, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, path)
	return f.photoErr
}

type fakeMail struct {
	enabled bool
	err     error
	sent    []string
	attach  []string
}

func (f *fakeMail) Enabled() bool { return f.enabled }

func (f *fakeMail) Send(_ context.Context, subject, _ string, attach string) error {
	f.sent = append(f.sent, subject)
	f.attach = append(f.attach, attach)
	return f.err
}

type fakeFrames struct {
	dir   string
	exist map[string]bool
}

func (f fakeFrames) Exists(name string) bool { return f.exist[name] }

func (f fakeFrames) Path(name string) (string, error) { return filepath.Join(f.dir, name), nil }

func unauthorized() infdom.Verdict {
	return infdom.Verdict{Confidence: infdom.Conf(0.2), Reason: infdom.ReasonNoMatch, SavedAs: "f1.jpg"}
}

func newDispatcher(tg *fakeTG, mail *fakeMail) *Dispatcher {
	frames := fakeFrames{dir: "/uploads", exist: map[string]bool{"f1.jpg": true}}
	return New(Config{Cooldown: time.Minute, PublicBaseURL: "http://192.168.1.37:8000/"}, tg, mail, frames)
}

func TestCaption(t *testing.T) {
	got := Caption(unauthorized(), "http://192.168.1.37:8000/")
	want := "🚨 Intruder alert!\nauthorized: false\nconfidence: 0.200\nreason: no_match\nfile: f1.jpg\nlatest: http://192.168.1.37:8000/latest.jpg"
	if got != want {
		t.Fatalf("caption\n%q\nwant\n%q", got, want)
	}
	if c := Caption(infdom.Verdict{}, "http://x"); c != "🚨 Intruder alert!\nauthorized: false\nconfidence: 0.000\nreason: n/a\nfile: n/a\nlatest: http://x/latest.jpg" {
		t.Fatalf("empty verdict caption %q", c)
	}
}

func TestDispatch_Channels(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name      string
		tg        *fakeTG
		mail      *fakeMail
		want      domain.Outcome
		wantMail  int
		wantPhoto int
	}{
		{"text and photo", &fakeTG{enabled: true}, &fakeMail{enabled: true}, domain.OutcomeTelegramPhoto, 0, 1},
		{"photo fails, no fallback", &fakeTG{enabled: true, photoErr: boom}, &fakeMail{enabled: true}, domain.OutcomeTelegramText, 0, 1},
		{"text fails, mail", &fakeTG{enabled: true, textErr: boom}, &fakeMail{enabled: true}, domain.OutcomeMail, 1, 0},
		{"telegram disabled, mail", &fakeTG{}, &fakeMail{enabled: true}, domain.OutcomeMail, 1, 0},
		{"everything fails", &fakeTG{enabled: true, textErr: boom}, &fakeMail{enabled: true, err: boom}, domain.OutcomeFailed, 1, 0},
		{"text fails, mail disabled", &fakeTG{enabled: true, textErr: boom}, &fakeMail{}, domain.OutcomeFailed, 0, 0},
		{"nothing configured", &fakeTG{}, &fakeMail{}, domain.OutcomeDisabled, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDispatcher(tc.tg, tc.mail)
			if got := d.Dispatch(context.Background(), unauthorized()); got != tc.want {
				t.Fatalf("outcome %q want %q", got, tc.want)
			}
			if len(tc.mail.sent) != tc.wantMail || len(tc.tg.photos) != tc.wantPhoto {
				t.Fatalf("mail=%d photos=%d", len(tc.mail.sent), len(tc.tg.photos))
			}
			if tc.wantMail > 0 && (tc.mail.sent[0] != domain.Subject || tc.mail.attach[0] != filepath.Join("/uploads", "f1.jpg")) {
				t.Fatalf("mail %v %v", tc.mail.sent, tc.mail.attach)
			}
		})
	}
}

func TestDispatch_AuthorizedAndCooldown(t *testing.T) {
	tg := &fakeTG{enabled: true}
	d := newDispatcher(tg, &fakeMail{})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	ok := unauthorized()
	ok.Authorized = true
	if got := d.Dispatch(context.Background(), ok); got != domain.OutcomeSkippedAuthorized {
		t.Fatalf("authorized: %q", got)
	}
	if got := d.Dispatch(context.Background(), unauthorized()); got != domain.OutcomeTelegramPhoto {
		t.Fatalf("first: %q", got)
	}
	now = now.Add(30 * time.Second)
	if got := d.Dispatch(context.Background(), unauthorized()); got != domain.OutcomeCooldown {
		t.Fatalf("second inside window: %q", got)
	}
	now = now.Add(31 * time.Second)
	if got := d.Dispatch(context.Background(), unauthorized()); got != domain.OutcomeTelegramPhoto {
		t.Fatalf("after window: %q", got)
	}
	if len(tg.texts) != 2 {
		t.Fatalf("want 2 dispatch attempts, got %d", len(tg.texts))
	}
}

func TestDispatch_ImageFallsBackToLatest(t *testing.T) {
	tg := &fakeTG{enabled: true}
	d := newDispatcher(tg, &fakeMail{})
	v := unauthorized()
	v.SavedAs = "gone.jpg"
	d.Dispatch(context.Background(), v)
	if len(tg.photos) != 1 || tg.photos[0] != filepath.Join("/uploads", "latest.jpg") {
		t.Fatalf("photo path %v", tg.photos)
	}
}

func TestTrigger_Detached(t *testing.T) {
	tg := &fakeTG{enabled: true, textErr: perr.Disabledf("x")}
	d := newDispatcher(tg, &fakeMail{enabled: true})
	outs := make(chan domain.Outcome, 1)
	d.done = func(o domain.Outcome) { outs <- o }

	d.Publish(unauthorized())
	select {
	case o := <-outs:
		if o != domain.OutcomeMail {
			t.Fatalf("outcome %q", o)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("trigger never completed")
	}
}

func TestTrigger_RecoversPanic(t *testing.T) {
	d := New(Config{}, panicTG{}, nil, nil)
	outs := make(chan domain.Outcome, 1)
	d.done = func(o domain.Outcome) { outs <- o }
	kit.MustNotPanic(t, func() { d.Trigger(unauthorized()) })
	select {
	case o := <-outs:
		if o != domain.OutcomeFailed {
			t.Fatalf("outcome %q", o)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("trigger never completed")
	}
}

type panicTG struct{}

func (panicTG) Enabled() bool { return true }

func (panicTG) SendMessage(context.Context, string) error { panic("boom") }

func (panicTG) SendPhoto(context.Context, string, string) error { return nil }
