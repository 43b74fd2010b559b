package httpkit

import (
	"net/http"
	"time"

	"facegate/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	MaxBody     int64
	SlowRequest time.Duration
	CORSOrigins []string
}

// CommonStack returns the baseline middleware slice for the API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow:  o.SlowRequest,
			Quiet: []string{"/ping", "/latest.jpg", "/meta/health"},
		}),
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Heartbeat("/healthz"),
		middleware.BodyLimit(o.MaxBody),
	}
}
