package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/fetchme/internal/backoff"
)

// Result is the tagged outcome of fetching one URL. Exactly one of Body
// and Err is meaningful: Err is nil on success.
type Result struct {
	URL  string
	Body string
	Err  error
}

// Failed reports whether the fetch exhausted its attempt budget.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Text renders the result as a single string: the body on success, or
// "Failed to fetch {url}: {err}" on terminal failure. Callers that need a
// machine-checkable distinction should use Failed instead of inspecting
// the string.
func (r Result) Text() string {
	if r.Err != nil {
		return fmt.Sprintf("Failed to fetch %s: %v", r.URL, r.Err)
	}
	return r.Body
}

// Fetcher issues GET requests with per-attempt timeouts and retry with
// exponential backoff. A Fetcher owns a connection-pooled HTTP client and
// is safe for concurrent use.
type Fetcher struct {
	client         *http.Client
	ownClient      bool
	maxAttempts    int
	attemptTimeout time.Duration
	backoff        backoff.Strategy
	limiter        *rate.Limiter
	userAgent      string
}

// New creates a Fetcher. Defaults: 3 attempts, 5s per-attempt timeout,
// backoff waits of 1s, 2s, 4s, ... capped at 30s.
func New(opts ...Option) *Fetcher {
	cfg := &config{
		maxAttempts:    defaultMaxAttempts,
		attemptTimeout: defaultAttemptTimeout,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
		backoffType:    backoff.Exponential,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := cfg.client
	ownClient := false
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		}
		ownClient = true
	}

	f := &Fetcher{
		client:         client,
		ownClient:      ownClient,
		maxAttempts:    cfg.maxAttempts,
		attemptTimeout: cfg.attemptTimeout,
		backoff:        backoff.New(cfg.backoffType, cfg.initialBackoff, cfg.maxBackoff, 0.1),
		limiter:        cfg.limiter,
		userAgent:      cfg.userAgent,
	}
	return f
}

// Fetch performs an HTTP GET with retries. A non-2xx status or transport
// error counts as a failed attempt; after each failure except the last the
// calling goroutine waits 2^attempt units of the initial backoff before
// retrying. Fetch never returns an error to the caller: terminal failure is
// encoded in the Result. Context cancellation ends the retry loop early
// with the context error as the failure reason.
func (f *Fetcher) Fetch(ctx context.Context, url string) Result {
	var lastErr error

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			// The wait after failure number n is initial * 2^(n-1):
			// 1s, 2s, 4s, ... with the defaults.
			select {
			case <-time.After(f.backoff.Delay(attempt - 1)):
			case <-ctx.Done():
				return Result{URL: url, Err: ctx.Err()}
			}
		}

		body, err := f.attempt(ctx, url)
		if err == nil {
			return Result{URL: url, Body: body}
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return Result{URL: url, Err: lastErr}
}

// attempt performs a single GET with the per-attempt timeout applied.
func (f *Fetcher) attempt(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// Close releases idle connections held by a client the Fetcher created
// itself. Clients supplied via WithHTTPClient are left untouched.
func (f *Fetcher) Close() {
	if f.ownClient {
		f.client.CloseIdleConnections()
	}
}
