package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "facegate/internal/platform/errors"
	infdom "facegate/internal/services/inference/domain"
)

// HTTPReceiver POSTs verdicts as JSON to the receiver device over one keep-alive client
type HTTPReceiver struct {
	url    string
	client *http.Client
}

// NewHTTPReceiver returns a receiver sink with a per-request timeout
func NewHTTPReceiver(url string, timeout time.Duration) *HTTPReceiver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConnsPerHost = 4
	return &HTTPReceiver{url: url, client: &http.Client{Timeout: timeout, Transport: tr}}
}

// Name identifies the sink in logs
func (r *HTTPReceiver) Name() string { return "receiver_http" }

// Deliver sends the verdict; only 200 counts as delivered
func (r *HTTPReceiver) Deliver(ctx context.Context, v infdom.Verdict) error {
	body, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "receiver: encode verdict")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeConfig, "receiver: new request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "receiver: post")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return perr.Upstreamf("receiver: status %d", resp.StatusCode)
	}
	return nil
}
