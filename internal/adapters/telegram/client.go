// Package telegram sends alert text and photos through the Telegram Bot API
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"facegate/internal/platform/config"
	perr "facegate/internal/platform/errors"
	"facegate/internal/platform/logger"
)

const (
	baseURLDefault      = "https://api.telegram.org"
	defaultTextTimeout  = 8 * time.Second
	defaultPhotoTimeout = 15 * time.Second
	maxErrBody          = 1024
)

// Options configures the Client. A blank or placeholder token or chat id disables it
type Options struct {
	BaseURL      string
	Token        string
	ChatID       string
	TextTimeout  time.Duration
	PhotoTimeout time.Duration
}

// Client is a minimal Bot API client for sendMessage and sendPhoto
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a client sharing one keep-alive transport across calls
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.TextTimeout <= 0 {
		o.TextTimeout = defaultTextTimeout
	}
	if o.PhotoTimeout <= 0 {
		o.PhotoTimeout = defaultPhotoTimeout
	}
	o.Token = strings.TrimSpace(o.Token)
	o.ChatID = strings.TrimSpace(o.ChatID)
	return &Client{
		http: &http.Client{},
		opts: o,
		log:  *logger.Named("telegram"),
	}
}

// Enabled reports whether token and chat id are real values
func (c *Client) Enabled() bool {
	return !config.IsPlaceholder(c.opts.Token) && !config.IsPlaceholder(c.opts.ChatID)
}

// SendMessage posts text to the configured chat with link previews off
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Enabled() {
		return perr.Disabledf("telegram: not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.TextTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("chat_id", c.opts.ChatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendMessage"), strings.NewReader(form.Encode()))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "telegram: new request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, "sendMessage")
}

// SendPhoto uploads the image at path with caption. A missing image is an error without a network call
func (c *Client) SendPhoto(ctx context.Context, caption, path string) error {
	if !c.Enabled() {
		return perr.Disabledf("telegram: not configured")
	}
	if path == "" {
		return perr.NotFoundf("telegram: no image to send")
	}
	img, err := os.ReadFile(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "telegram: read %s", filepath.Base(path))
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.PhotoTimeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("chat_id", c.opts.ChatID)
	_ = mw.WriteField("caption", caption)
	part, err := mw.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "telegram: build multipart")
	}
	if _, err := part.Write(img); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "telegram: build multipart")
	}
	if err := mw.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "telegram: build multipart")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendPhoto"), &body)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "telegram: new request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, "sendPhoto")
}

func (c *Client) endpoint(method string) string {
	return c.opts.BaseURL + "/bot" + c.opts.Token + "/" + method
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// do runs the request; only HTTP 200 counts as delivered
func (c *Client) do(req *http.Request, method string) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// the url carries the token; keep it out of logs and errors
		return perr.Newf(perr.ErrorCodeUnavailable, "telegram: %s failed: %s", method, redact(err.Error(), c.opts.Token))
	}
	defer resp.Body.Close()
	c.log.Debug().Str("method", method).Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("telegram http response")

	if resp.StatusCode == http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	tail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	var ar apiResponse
	msg := strings.TrimSpace(string(tail))
	if json.Unmarshal(tail, &ar) == nil && ar.Description != "" {
		msg = ar.Description
	}
	return perr.Upstreamf("telegram: %s status %d: %s", method, resp.StatusCode, msg)
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "<token>")
}
