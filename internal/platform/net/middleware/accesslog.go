// Package middleware holds adapters and in house middlewares
package middleware

import (
	"net/http"
	"time"

	"facegate/internal/platform/logger"
	pnet "facegate/internal/platform/net"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow marks requests taking >= Slow as warn level, 0 disables slow marking
	Slow time.Duration
	// Quiet paths are logged at debug level; sensors poll /ping and /latest.jpg constantly
	Quiet []string
}

// captureWriter wraps the original ResponseWriter and records status & bytes
type captureWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	cw.bytes += n
	return n, err
}

// AccessLogZerolog copies the request id into the logger context and logs
// method, path, status, elapsed, bytes and remote address once the handler returns
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	quiet := make(map[string]struct{}, len(opt.Quiet))
	for _, p := range opt.Quiet {
		quiet[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))
			r = r.WithContext(ctx)

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(cw, r)
			elapsed := time.Since(start)

			log := logger.C(ctx)
			evt := log.Info()
			if _, ok := quiet[r.URL.Path]; ok {
				evt = log.Debug()
			}
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Int("status", cw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", pnet.SourceAddress(r)).
				Int("bytes", cw.bytes).
				Msg("request done")
		})
	}
}
