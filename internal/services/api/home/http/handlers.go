// Package http serves the plain-text banner and the ping probe
package http

import (
	"fmt"
	"net/http"
	"strings"

	phttp "facegate/internal/platform/net/http"
	infdom "facegate/internal/services/inference/domain"
)

// QueueStats reports the inference queue counters
type QueueStats interface {
	Stats() infdom.Stats
}

// Status is the channel summary shown on the banner; Queue is optional
type Status struct {
	Receiver bool
	Telegram bool
	Email    bool
	Queue    QueueStats
}

// Banner renders the endpoint list, channel status and queue counters
func Banner(s Status) string {
	var b strings.Builder
	b.WriteString("OK - facegate server\n")
	b.WriteString("POST /infer - Send JPEG\n")
	b.WriteString("GET /latest.jpg - Last image\n")
	b.WriteString("GET /files - List uploads\n")
	b.WriteString("GET /ping - Health check\n")
	fmt.Fprintf(&b, "Receiver: %t\n", s.Receiver)
	fmt.Fprintf(&b, "Telegram: %t\n", s.Telegram)
	fmt.Fprintf(&b, "Email: %t\n", s.Email)
	if s.Queue != nil {
		st := s.Queue.Stats()
		fmt.Fprintf(&b, "Queue: %d/%d workers=%d processed=%d dropped=%d\n",
			st.Depth, st.Capacity, st.Workers, st.Processed, st.Dropped)
	}
	return b.String()
}

// Register mounts GET / and GET /ping
func Register(r phttp.Router, s Status) {
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		phttp.Text(w, http.StatusOK, Banner(s))
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		phttp.Text(w, http.StatusOK, "pong")
	})
}
