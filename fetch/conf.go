package fetch

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/fetchme/internal/backoff"
)

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 5 * time.Second
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// Option is a functional option for configuring a Fetcher.
type Option func(*config)

type config struct {
	maxAttempts    int
	attemptTimeout time.Duration
	initialBackoff time.Duration
	maxBackoff     time.Duration
	backoffType    backoff.Type
	client         *http.Client
	limiter        *rate.Limiter
	userAgent      string
}

// WithMaxAttempts sets the total attempt budget per URL. Default: 3.
func WithMaxAttempts(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxAttempts = n
		}
	}
}

// WithAttemptTimeout sets the timeout for each individual request. Default: 5s.
func WithAttemptTimeout(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.attemptTimeout = d
		}
	}
}

// WithInitialBackoff sets the wait after the first failed attempt; it doubles
// after each further failure. Default: 1s.
func WithInitialBackoff(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.initialBackoff = d
		}
	}
}

// WithMaxBackoff caps the backoff wait. Default: 30s.
func WithMaxBackoff(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.maxBackoff = d
		}
	}
}

// WithJitteredBackoff switches the retry waits to jittered exponential
// backoff, spreading out retries when many fetches fail together.
func WithJitteredBackoff() Option {
	return func(cfg *config) {
		cfg.backoffType = backoff.Jittered
	}
}

// WithHTTPClient supplies a custom HTTP client. The caller keeps ownership;
// Close will not release it.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.client = c
		}
	}
}

// WithRateLimit caps outbound requests at perSecond with the given burst,
// counting retries. Useful for polite crawling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *config) {
		if perSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(cfg *config) {
		cfg.userAgent = ua
	}
}
