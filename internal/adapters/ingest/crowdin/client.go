// Package crowdin is a small Crowdin API v2 client for the ingester
package crowdin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "conflux/internal/platform/errors"
	"conflux/internal/platform/logger"
	ptime "conflux/internal/platform/time"
)

const (
	baseURLDefault    = "https://api.crowdin.com/api/v2"
	defaultTimeout    = 30 * time.Second
	defaultUA         = "conflux-ingest"
	defaultMaxRetry   = 5
	defaultBackoff    = 500 * time.Millisecond
	defaultMaxBackoff = 30 * time.Second
	maxBody           = 16 << 20
)

// Options configures the Client
type Options struct {
	BaseURL      string
	Token        string
	Organization string // enterprise org, switches the host to {org}.api.crowdin.com
	UserAgent    string
	Timeout      time.Duration
	HTTPClient   *http.Client

	// Retry config for transient and rate limited responses
	// MaxRetries 0 uses the default, negative disables retries
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration

	// RespectRateLimit sleeps until X-RateLimit-Reset when the quota is spent
	RespectRateLimit bool
}

// Client talks to one crowdin account with a personal access token
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
	jit   func(time.Duration) time.Duration
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
		if org := strings.TrimSpace(o.Organization); org != "" {
			o.BaseURL = "https://" + org + ".api.crowdin.com/api/v2"
		}
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.BaseBackoff <= 0 {
		o.BaseBackoff = defaultBackoff
	}
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = defaultMaxBackoff
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:  hc,
		opts:  o,
		log:   *logger.Named("crowdin"),
		now:   time.Now,
		sleep: ptime.SleepCtx,
		jit:   ptime.Jitter,
	}
}

// BaseURL returns the resolved api root
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// apiError is the crowdin error body shape
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Errors []struct {
		Error struct {
			Key    string `json:"key"`
			Errors []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"error"`
	} `json:"errors"`
}

func (e apiError) message() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	var parts []string
	for _, v := range e.Errors {
		for _, inner := range v.Error.Errors {
			parts = append(parts, v.Error.Key+": "+inner.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// get issues a GET with auth, retries on transport errors, 429 and 5xx, and decodes into out
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.opts.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "crowdin new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt >= c.opts.MaxRetries {
				return perr.Wrapf(err, perr.ErrorCodeUnavailable, "crowdin %s failed", path)
			}
			back := c.backoff(attempt)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempt).Msg("crowdin transport error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return err
			}
			continue
		}

		rl := parseRateHeaders(resp.Header)
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", lat).
			Int("rate_remaining", rl.remaining).
			Msg("crowdin http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := decodeBody(resp.Body, out)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeJSON, "crowdin %s decode failed", path)
			}
			if c.opts.RespectRateLimit && rl.spent() {
				if wait := rl.wait(c.now()); wait > 0 {
					c.log.Info().Dur("sleep", wait).Msg("crowdin quota spent waiting for reset")
					return c.sleep(ctx, wait)
				}
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			msg := readError(resp.Body)
			if attempt >= c.opts.MaxRetries {
				return perr.FromHTTPStatus(resp.StatusCode, "crowdin %s: %s", path, msg)
			}
			wait := rl.wait(c.now())
			if wait <= 0 {
				wait = c.backoff(attempt)
			}
			c.log.Warn().Int("status", resp.StatusCode).Dur("sleep", wait).Int("attempt", attempt).
				Msg("crowdin throttled or failing, backing off")
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}

		default:
			msg := readError(resp.Body)
			return perr.FromHTTPStatus(resp.StatusCode, "crowdin %s: %s", path, msg)
		}
	}
}

// backoff is capped exponential with jitter
func (c *Client) backoff(attempt int) time.Duration {
	return c.jit(ptime.Backoff(c.opts.BaseBackoff, c.opts.MaxBackoff, attempt))
}

func decodeBody(rc io.ReadCloser, out any) error {
	defer func() { _ = rc.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, rc)
		return nil
	}
	return json.NewDecoder(io.LimitReader(rc, maxBody)).Decode(out)
}

// readError drains the body and returns the crowdin message or a short tail
func readError(rc io.ReadCloser) string {
	defer func() { _ = rc.Close() }()
	b, _ := io.ReadAll(io.LimitReader(rc, 4096))
	var e apiError
	if json.Unmarshal(b, &e) == nil {
		if m := e.message(); m != "" {
			return m
		}
	}
	return strings.TrimSpace(string(b))
}
