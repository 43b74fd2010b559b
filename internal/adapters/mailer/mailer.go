// Package mailer sends alert mail over SMTP with STARTTLS and an implicit TLS fallback
package mailer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"facegate/internal/platform/config"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
	"facegate/internal/platform/net/http/bind"
	str "facegate/internal/platform/strings"

	"github.com/wneessen/go-mail"
)

const (
	defaultHost         = "smtp.gmail.com"
	defaultStartTLSPort = 587
	defaultImplicitPort = 465
	defaultTimeout      = 15 * time.Second
)

// Options configures the Mailer
type Options struct {
	Host         string
	StartTLSPort int
	ImplicitPort int
	Username     string
	Password     string
	From         string
	To           []string
	Timeout      time.Duration
}

// Mailer delivers one message per Send, trying STARTTLS first and implicit TLS second
type Mailer struct {
	opts   Options
	reason string
	log    logger.Logger

	// dial is swapped in tests
	dial func(ctx context.Context, m *mail.Msg, opts ...mail.Option) error
}

// New validates addresses and credentials; a Mailer that fails validation is disabled, not an error
func New(o Options) *Mailer {
	if o.Host == "" {
		o.Host = defaultHost
	}
	if o.StartTLSPort <= 0 {
		o.StartTLSPort = defaultStartTLSPort
	}
	if o.ImplicitPort <= 0 {
		o.ImplicitPort = defaultImplicitPort
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.Username = strings.TrimSpace(o.Username)
	if o.From == "" {
		o.From = o.Username
	}
	// app passwords are shown grouped with spaces
	o.Password = str.StripSpace(o.Password)

	m := &Mailer{opts: o, log: *logger.Named("mailer")}
	m.dial = m.dialAndSend
	m.reason = m.check()
	return m
}

func (m *Mailer) check() string {
	if config.IsPlaceholder(m.opts.Password) {
		return "password missing"
	}
	if err := bind.Var(m.opts.Username, "required,email"); err != nil {
		return "username is not an email address"
	}
	if err := bind.Var(m.opts.From, "required,email"); err != nil {
		return "from is not an email address"
	}
	if len(m.opts.To) == 0 {
		return "no recipients"
	}
	for _, to := range m.opts.To {
		if err := bind.Var(to, "required,email"); err != nil {
			return "recipient " + to + " is not an email address"
		}
	}
	return ""
}

// Enabled reports whether the mailer is fully configured
func (m *Mailer) Enabled() bool { return m.reason == "" }

// DisabledReason explains why Enabled is false
func (m *Mailer) DisabledReason() string { return m.reason }

// Send delivers subject and body, attaching the file at attachPath when it exists
func (m *Mailer) Send(ctx context.Context, subject, body, attachPath string) error {
	if !m.Enabled() {
		return perr.Disabledf("mailer: %s", m.reason)
	}
	msg, err := m.compose(subject, body, attachPath)
	if err != nil {
		return err
	}

	common := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.opts.Username),
		mail.WithPassword(m.opts.Password),
		mail.WithTimeout(m.opts.Timeout),
	}
	startTLS := append([]mail.Option{mail.WithPort(m.opts.StartTLSPort), mail.WithTLSPolicy(mail.TLSMandatory)}, common...)
	err1 := m.dial(ctx, msg, startTLS...)
	if err1 == nil {
		m.log.Info().Int("port", m.opts.StartTLSPort).Msg("mail sent")
		return nil
	}
	m.log.Warn().Err(err1).Int("port", m.opts.StartTLSPort).Msg("mail via starttls failed; trying implicit tls")

	implicit := append([]mail.Option{mail.WithPort(m.opts.ImplicitPort), mail.WithSSL()}, common...)
	err2 := m.dial(ctx, msg, implicit...)
	if err2 == nil {
		m.log.Info().Int("port", m.opts.ImplicitPort).Msg("mail sent")
		return nil
	}
	return perr.Wrapf(err2, perr.ErrorCodeUpstream, "mailer: both ports failed (%d: %v)", m.opts.StartTLSPort, err1)
}

func (m *Mailer) compose(subject, body, attachPath string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.opts.From); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "mailer: from")
	}
	if err := msg.To(m.opts.To...); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "mailer: to")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if attachPath != "" {
		if fi, err := os.Stat(attachPath); err == nil && fi.Mode().IsRegular() {
			msg.AttachFile(attachPath, mail.WithFileName(filepath.Base(attachPath)))
		} else {
			m.log.Warn().Str("path", attachPath).Msg("attachment missing; sending without it")
		}
	}
	return msg, nil
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg, opts ...mail.Option) error {
	c, err := mail.NewClient(m.opts.Host, opts...)
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}
