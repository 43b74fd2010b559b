// Package service implements the rate limited alert dispatcher
package service

import (
	"context"
	"runtime/debug"
	"time"

	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
	"facegate/internal/services/alert/domain"
	framesvc "facegate/internal/services/frames/service"
	infdom "facegate/internal/services/inference/domain"
)

// Config controls the dispatcher
type Config struct {
	Cooldown      time.Duration
	PublicBaseURL string
}

// Dispatcher sends owner alerts for unauthorized verdicts
type Dispatcher struct {
	cfg    Config
	gate   *Gate
	tg     domain.Messenger
	mail   domain.Mailer
	frames domain.FrameLocator
	log    logger.Logger
	now    func() time.Time

	// done is called after each detached Trigger finishes; tests hook it
	done func(domain.Outcome)
}

// New constructs a dispatcher; nil channels count as disabled
func New(cfg Config, tg domain.Messenger, mail domain.Mailer, frames domain.FrameLocator) *Dispatcher {
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://127.0.0.1:8000"
	}
	return &Dispatcher{
		cfg:    cfg,
		gate:   NewGate(cfg.Cooldown),
		tg:     tg,
		mail:   mail,
		frames: frames,
		log:    *logger.Named("alert"),
		now:    time.Now,
		done:   func(domain.Outcome) {},
	}
}

// Gate exposes the cooldown gate
func (d *Dispatcher) Gate() *Gate { return d.gate }

// Publish satisfies the inference publisher contract by triggering a detached dispatch
func (d *Dispatcher) Publish(v infdom.Verdict) { d.Trigger(v) }

// Trigger runs Dispatch in its own goroutine on a background context and returns immediately
func (d *Dispatcher) Trigger(v infdom.Verdict) {
	go func() {
		out := domain.OutcomeFailed
		defer func() {
			if rec := recover(); rec != nil {
				d.log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("alert dispatch panicked")
			}
			d.done(out)
		}()
		out = d.Dispatch(context.Background(), v)
	}()
}

// Dispatch applies the cooldown, sends text then photo, and mails only when both failed
func (d *Dispatcher) Dispatch(ctx context.Context, v infdom.Verdict) domain.Outcome {
	if v.Authorized {
		return domain.OutcomeSkippedAuthorized
	}
	if !d.gate.TryAcquire(d.now()) {
		d.log.Debug().Str("reason", v.Reason).Msg("alert suppressed by cooldown")
		return domain.OutcomeCooldown
	}

	caption := Caption(v, d.cfg.PublicBaseURL)
	img := d.imagePath(v.SavedAs)
	tgOn := d.tg != nil && d.tg.Enabled()
	mailOn := d.mail != nil && d.mail.Enabled()
	if !tgOn && !mailOn {
		d.log.Warn().Str("reason", v.Reason).Msg("alert not sent: no channel configured")
		return domain.OutcomeDisabled
	}

	var textOK, photoOK bool
	if tgOn {
		if err := d.tg.SendMessage(ctx, caption); err != nil {
			d.log.Warn().Err(err).Msg("telegram text failed")
		} else {
			textOK = true
			if err := d.tg.SendPhoto(ctx, caption, img); err != nil {
				d.log.Warn().Err(err).Str("image", img).Msg("telegram photo failed")
			} else {
				photoOK = true
			}
		}
	}

	var out domain.Outcome
	switch {
	case photoOK:
		out = domain.OutcomeTelegramPhoto
	case textOK:
		out = domain.OutcomeTelegramText
	case mailOn:
		if err := d.mail.Send(ctx, domain.Subject, caption, img); err != nil {
			d.log.Error().Err(err).Msg("mail fallback failed")
			out = domain.OutcomeFailed
		} else {
			out = domain.OutcomeMail
		}
	default:
		out = domain.OutcomeFailed
	}

	ev := d.log.Info()
	if !out.Delivered() {
		ev = d.log.Error()
	}
	ev.Str("outcome", string(out)).Str("reason", v.Reason).Str("saved_as", v.SavedAs).Float64("confidence", v.Score()).Msg("alert dispatched")
	return out
}

// imagePath prefers the verdict's frame and falls back to latest.jpg
func (d *Dispatcher) imagePath(savedAs string) string {
	if d.frames == nil {
		return ""
	}
	name := savedAs
	if name == "" || !d.frames.Exists(name) {
		name = framesvc.LatestName
	}
	p, err := d.frames.Path(name)
	if err != nil {
		d.log.Debug().Err(perr.Root(err)).Str("name", name).Msg("alert image unavailable")
		return ""
	}
	return p
}
