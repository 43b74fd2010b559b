// Package httpembed is an HTTP client for a DeepFace style /represent sidecar
package httpembed

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"facegate/internal/adapters/embedder"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
)

const (
	baseURLDefault   = "http://127.0.0.1:5005"
	defaultTimeout   = 30 * time.Second
	defaultMaxRetry  = 2
	defaultRetryBase = 250 * time.Millisecond
	maxErrBody       = 2048
)

// noFaceMarker is the provider's message when detection is enforced and fails
const noFaceMarker = "face could not be detected"

// Options configures the Client
type Options struct {
	BaseURL string
	Timeout time.Duration

	// EnforceDetection makes the provider fail instead of embedding the whole frame
	EnforceDetection bool

	// Retry config for transient upstream responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client calls POST {BaseURL}/represent
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	sleep func(time.Duration)
}

var _ embedder.Embedder = (*Client)(nil)

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("embedder"),
		sleep: time.Sleep,
	}
}

type representRequest struct {
	Img              string `json:"img"`
	ModelName        string `json:"model_name,omitempty"`
	DetectorBackend  string `json:"detector_backend,omitempty"`
	EnforceDetection bool   `json:"enforce_detection"`
}

type representResponse struct {
	Results []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"results"`
	Error string `json:"error"`
}

// Embed sends the image and returns the first face's embedding
func (c *Client) Embed(ctx context.Context, image []byte, hint embedder.Hint) ([]float64, error) {
	if len(image) == 0 {
		return nil, embedder.ErrDecode
	}
	body, err := json.Marshal(representRequest{
		Img:              "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image),
		ModelName:        hint.Model,
		DetectorBackend:  hint.Detector,
		EnforceDetection: c.opts.EnforceDetection,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "embedder: encode request")
	}

	attempts := 0
	for {
		out, retry, err := c.once(ctx, body)
		if err == nil || !retry || attempts >= c.opts.MaxRetries {
			return out, err
		}
		back := c.opts.RetryBase << uint(attempts)
		c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("embedder transient error retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		c.sleep(back)
		attempts++
	}
}

// once performs one round trip; retry reports whether the failure is transient
func (c *Client) once(ctx context.Context, body []byte) (emb []float64, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/represent", bytes.NewReader(body))
	if err != nil {
		return nil, false, perr.Wrap(err, perr.ErrorCodeUnknown, "embedder: new request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, perr.Wrap(err, perr.ErrorCodeUnavailable, "embedder: request failed")
	}
	defer resp.Body.Close()

	c.log.Debug().Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("embedder http response")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var rr representResponse
		if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
			return nil, false, perr.Wrap(err, perr.ErrorCodeUpstream, "embedder: decode response")
		}
		if len(rr.Results) == 0 || len(rr.Results[0].Embedding) == 0 {
			return nil, false, embedder.ErrNoFace
		}
		return rr.Results[0].Embedding, false, nil
	case resp.StatusCode == http.StatusBadGateway, resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, true, perr.Upstreamf("embedder: transient status %d", resp.StatusCode)
	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, false, classify(resp.StatusCode, tail)
	}
}

// classify maps a non-2xx response to the embedder failure kinds
func classify(status int, body []byte) error {
	msg := string(body)
	var rr representResponse
	if json.Unmarshal(body, &rr) == nil && rr.Error != "" {
		msg = rr.Error
	}
	if status == http.StatusUnprocessableEntity || strings.Contains(strings.ToLower(msg), noFaceMarker) {
		return embedder.ErrNoFace
	}
	if status == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", embedder.ErrDecode, strings.TrimSpace(msg))
	}
	return perr.Upstreamf("embedder: unexpected status %d body %s", status, strings.TrimSpace(msg))
}
