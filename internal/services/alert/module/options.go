package module

import (
	"time"

	"facegate/internal/platform/config"
	str "facegate/internal/platform/strings"
)

// Options controls the dispatcher and its channels
type Options struct {
	Cooldown      time.Duration
	PublicBaseURL string

	TelegramEnabled      bool
	TelegramAPIURL       string
	TelegramToken        string
	TelegramChatID       string
	TelegramTextTimeout  time.Duration
	TelegramPhotoTimeout time.Duration

	MailEnabled      bool
	MailHost         string
	MailPort         int
	MailFallbackPort int
	MailUser         string
	MailPassword     string
	MailFrom         string
	MailTo           []string
	MailTimeout      time.Duration
}

// FromConfig reads ALERT_*, TELEGRAM_* and MAIL_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("ALERT_")
	tc := cfg.Prefix("TELEGRAM_")
	mc := cfg.Prefix("MAIL_")
	return Options{
		Cooldown:      ac.MayDuration("COOLDOWN", 60*time.Second),
		PublicBaseURL: ac.MayString("PUBLIC_BASE_URL", "http://127.0.0.1:8000"),

		TelegramEnabled:      tc.MayBool("ENABLED", true),
		TelegramAPIURL:       tc.MayString("API_URL", "https://api.telegram.org"),
		TelegramToken:        tc.MaySecret("BOT_TOKEN"),
		TelegramChatID:       tc.MaySecret("CHAT_ID"),
		TelegramTextTimeout:  tc.MayDuration("TEXT_TIMEOUT", 8*time.Second),
		TelegramPhotoTimeout: tc.MayDuration("PHOTO_TIMEOUT", 15*time.Second),

		MailEnabled:      mc.MayBool("ENABLED", true),
		MailHost:         mc.MayString("HOST", "smtp.gmail.com"),
		MailPort:         mc.MayPositiveInt("PORT", 587),
		MailFallbackPort: mc.MayPositiveInt("FALLBACK_PORT", 465),
		MailUser:         mc.MayString("USER", ""),
		MailPassword:     mc.MaySecret("APP_PASSWORD"),
		MailFrom:         mc.MayString("FROM", ""),
		MailTo:           str.SplitCSV(mc.MayString("TO", "")),
		MailTimeout:      mc.MayDuration("TIMEOUT", 15*time.Second),
	}
}
