// Package fetcher downloads remote report payloads over HTTP. Fetch
// failures never surface as errors: every outcome is a payload, with
// failures represented as sentinel objects that flow through format
// detection like any other row.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxPayloadBytes caps a single report body. Bureau reports run to a few
// hundred KB; anything larger is a misrouted response.
const maxPayloadBytes = 16 << 20

// Options configures the payload fetcher.
type Options struct {
	// Timeout bounds each individual request so one slow endpoint cannot
	// stall a whole batch. Default 15s.
	Timeout time.Duration
	// RateLimit caps outbound requests per second. Default 50.
	RateLimit rate.Limit
	UserAgent string
}

// Fetcher retrieves JSON report payloads.
type Fetcher interface {
	// FetchJSON returns the decoded payload at url, or a sentinel error
	// payload when the request fails, returns non-2xx, or is not JSON.
	FetchJSON(ctx context.Context, url string) any
}

// HTTPFetcher implements Fetcher on net/http with a shared rate limiter.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    Options
}

// New creates an HTTPFetcher with the given options.
func New(opts Options) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 50
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "bureau-etl/1.0"
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				MaxConnsPerHost:     50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(opts.RateLimit, int(opts.RateLimit)),
		opts:    opts,
	}
}

// Sentinel builds the error payload carried forward in place of a fetched
// report. Detection classifies it as unknown, so the row still yields a
// minimal lead instead of vanishing.
func Sentinel(reason, url string) map[string]any {
	return map[string]any{"error": reason, "url": url}
}

func (f *HTTPFetcher) FetchJSON(ctx context.Context, url string) any {
	reqCtx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	if err := f.limiter.Wait(reqCtx); err != nil {
		return Sentinel(fmt.Sprintf("FETCH_FAIL: %v", err), url)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return Sentinel(fmt.Sprintf("FETCH_FAIL: %v", err), url)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		zap.L().Debug("fetcher: request failed", zap.String("url", url), zap.Error(err))
		return Sentinel(fmt.Sprintf("FETCH_FAIL: %v", err), url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Sentinel(fmt.Sprintf("HTTP_%d", resp.StatusCode), url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return Sentinel(fmt.Sprintf("FETCH_FAIL: %v", err), url)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Sentinel("INVALID_JSON_CONTENT", url)
	}
	return payload
}
