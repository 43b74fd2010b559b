// Package domain defines alert outcomes and the delivery channel ports
package domain

import "context"

// Outcome records what a dispatch attempt did
type Outcome string

// Dispatch outcomes
const (
	OutcomeSkippedAuthorized Outcome = "skipped_authorized"
	OutcomeCooldown          Outcome = "cooldown"
	OutcomeTelegramPhoto     Outcome = "telegram_photo"
	OutcomeTelegramText      Outcome = "telegram_text"
	OutcomeMail              Outcome = "mail"
	OutcomeFailed            Outcome = "failed"
	OutcomeDisabled          Outcome = "disabled"
)

// Delivered reports whether the alert reached the owner on any channel
func (o Outcome) Delivered() bool {
	return o == OutcomeTelegramPhoto || o == OutcomeTelegramText || o == OutcomeMail
}

// Subject is the mail subject line for intruder alerts
const Subject = "🚨 Smart_Device: Intruder"

// Messenger is the primary channel: text first, then a photo
type Messenger interface {
	Enabled() bool
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, caption, imagePath string) error
}

// Mailer is the fallback channel
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, subject, body, attachPath string) error
}

// FrameLocator resolves frame names in the uploads directory
type FrameLocator interface {
	Exists(name string) bool
	Path(name string) (string, error)
}
