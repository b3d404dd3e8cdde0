// Package http builds the retrying HTTP client shared by every outbound call to
// the EVM node, both the raw JSON-RPC transport and the go-ethereum rpc client.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type config struct {
	timeout      time.Duration
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
	userAgent    string
}

// Option customizes NewClient.
type Option func(*config)

// NewClient returns a retryablehttp.Client. Defaults: 10s per request, waits
// between 500ms and 5s, 3 retries. Node errors answered with 4xx are not
// retried, except 429 which providers use for rate limiting.
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      10 * time.Second,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		retryMax:     3,
		userAgent:    "ledgerview",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	client.CheckRetry = checkRetry
	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, _ int) {
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", cfg.userAgent)
		}
	}
	return client
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// WithTimeout bounds a single request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWait sets the backoff bounds between attempts.
func WithRetryWait(lo, hi time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = lo
		c.retryWaitMax = hi
	}
}

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithUserAgent sets the User-Agent sent when the caller did not set one.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}
