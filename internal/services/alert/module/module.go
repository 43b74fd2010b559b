// Package module wires the alert dispatcher, its channels and the manual trigger route
package module

import (
	"facegate/internal/adapters/mailer"
	"facegate/internal/adapters/telegram"
	modkit "facegate/internal/modkit"
	"facegate/internal/modkit/httpkit"
	str "facegate/internal/platform/strings"
	"facegate/internal/services/alert/domain"
	ahttp "facegate/internal/services/alert/http"
	"facegate/internal/services/alert/service"
)

// Requires are the ports injected with modkit.WithPorts
type Requires struct {
	Frames    domain.FrameLocator
	Threshold float64
}

// Ports are what the module offers
type Ports struct {
	Dispatcher *service.Dispatcher
}

// Module defines the alert module
type Module struct {
	built modkit.Built
	disp  *service.Dispatcher
	tg    domain.Messenger
	ml    domain.Mailer
}

// New builds the Telegram and mail channels from config and the dispatcher around them
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("alert"),
		modkit.WithPrefix(""),
	}, opts...)...)
	var req Requires
	if p, ok := b.Ports.(Requires); ok {
		req = p
	}

	var tg domain.Messenger
	if o.TelegramEnabled {
		tg = telegram.NewClient(telegram.Options{
			BaseURL:      o.TelegramAPIURL,
			Token:        o.TelegramToken,
			ChatID:       o.TelegramChatID,
			TextTimeout:  o.TelegramTextTimeout,
			PhotoTimeout: o.TelegramPhotoTimeout,
		})
	}
	var ml domain.Mailer
	if o.MailEnabled {
		m := mailer.New(mailer.Options{
			Host:         o.MailHost,
			StartTLSPort: o.MailPort,
			ImplicitPort: o.MailFallbackPort,
			Username:     o.MailUser,
			Password:     o.MailPassword,
			From:         o.MailFrom,
			To:           o.MailTo,
			Timeout:      o.MailTimeout,
		})
		if !m.Enabled() {
			deps.Log.Info().Str("reason", m.DisabledReason()).Msg("mail fallback disabled")
		}
		ml = m
	}

	disp := service.New(service.Config{Cooldown: o.Cooldown, PublicBaseURL: o.PublicBaseURL}, tg, ml, req.Frames)

	external := b.Register
	b.Register = func(r httpkit.Router) {
		ahttp.Register(r, disp, req.Threshold)
		external(r)
	}
	return &Module{built: b, disp: disp, tg: tg, ml: ml}
}

// Dispatcher returns the alert dispatcher
func (m *Module) Dispatcher() *service.Dispatcher { return m.disp }

// TelegramEnabled reports whether the primary channel is configured
func (m *Module) TelegramEnabled() bool { return m.tg != nil && m.tg.Enabled() }

// MailEnabled reports whether the fallback channel is configured
func (m *Module) MailEnabled() bool { return m.ml != nil && m.ml.Enabled() }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Dispatcher: m.disp} }

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.built.Name, "alert") }

// MountRoutes mounts GET /test_alert
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }
