// Package rag is the HTTP client for the retrieval-augmented diagnosis service.
// A report is first diagnosed against reference chromatograms, then the
// diagnosis is turned into troubleshooting advice
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/logger"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUA         = "chromalyzer"
	defaultMaxRetry   = 4
	defaultRetryBase  = 500 * time.Millisecond
	defaultMaxContext = 2000

	pathDiagnose     = "/diagnose"
	pathTroubleshoot = "/troubleshoot"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// MaxContext caps the report length sent for diagnosis, in characters
	MaxContext int

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client calls the diagnosis service
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// Advice is the outcome of both chains
type Advice struct {
	Diagnosis       string `json:"diagnosis"`
	Troubleshooting string `json:"troubleshooting"`
}

type request struct {
	Input    string `json:"input"`
	Metadata string `json:"metadata,omitempty"`
}

type response struct {
	Answer string `json:"answer"`
}

// NewClient creates a Client with defaults for zero fields
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxContext <= 0 {
		o.MaxContext = defaultMaxContext
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("rag"),
	}
}

// Truncate cuts s to at most n characters (runes)
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Diagnose runs the report through the diagnosis chain
func (c *Client) Diagnose(ctx context.Context, report, metadata string) (string, error) {
	return c.ask(ctx, pathDiagnose, request{Input: Truncate(report, c.opts.MaxContext), Metadata: metadata})
}

// Troubleshoot turns a diagnosis into remediation advice
func (c *Client) Troubleshoot(ctx context.Context, diagnosis string) (string, error) {
	return c.ask(ctx, pathTroubleshoot, request{Input: diagnosis})
}

// Advise runs both chains in order
func (c *Client) Advise(ctx context.Context, report, metadata string) (Advice, error) {
	d, err := c.Diagnose(ctx, report, metadata)
	if err != nil {
		return Advice{}, err
	}
	t, err := c.Troubleshoot(ctx, d)
	if err != nil {
		return Advice{Diagnosis: d}, err
	}
	return Advice{Diagnosis: d, Troubleshooting: t}, nil
}

func (c *Client) ask(ctx context.Context, path string, in request) (string, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "rag encode request")
	}

	var out response
	attempt := 0
	op := func() error {
		attempt++
		err := c.post(ctx, path, body, &out)
		if err != nil && !perr.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn().Err(err).Str("path", path).Int("attempt", attempt).Dur("retry_in", wait).Msg("rag call failed retrying")
	}
	if err := backoff.RetryNotify(op, c.policy(ctx), notify); err != nil {
		return "", err
	}
	return out.Answer, nil
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.opts.RetryBase
	eb.MaxInterval = 30 * time.Second
	eb.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.opts.MaxRetries)), ctx)
}

func (c *Client) post(ctx context.Context, path string, body []byte, out *response) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "rag new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rag %s failed", path)
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("rag http response")

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return perr.Newf(perr.ErrorCodeTooManyRequests, "rag %s rate limited", path)
	case resp.StatusCode >= 500:
		return perr.Newf(perr.ErrorCodeUnavailable, "rag %s status %d", path, resp.StatusCode)
	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return perr.Newf(perr.ErrorCodeUnknown, "rag %s unexpected status %d body %s", path, resp.StatusCode, string(tail))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "rag %s decode", path)
	}
	if strings.TrimSpace(out.Answer) == "" {
		return perr.Newf(perr.ErrorCodeUnknown, "rag %s returned an empty answer", path)
	}
	return nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 64<<10))
	return rc.Close()
}
