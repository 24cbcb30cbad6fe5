package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"
)

// Resilience tunes the policies wrapped around a provider. A zero count
// disables the matching policy.
type Resilience struct {
	// FailureThreshold opens the circuit after this many consecutive failures
	FailureThreshold int
	// OpenTimeout is how long an open circuit rejects calls before probing
	OpenTimeout time.Duration

	// MaxAttempts includes the first call
	MaxAttempts int
	// RetryDelay is the first backoff; later ones double up to 15x
	RetryDelay time.Duration

	// MaxConcurrent caps in-flight calls; twice as many may queue
	MaxConcurrent int

	// RatePerSecond caps calls per second, with a burst of three seconds' worth
	RatePerSecond int

	Logger *slog.Logger
}

// DefaultResilience returns the settings used for configured providers
func DefaultResilience() Resilience {
	return Resilience{
		FailureThreshold: 3,
		OpenTimeout:      time.Minute,
		MaxAttempts:      3,
		RetryDelay:       2 * time.Second,
		MaxConcurrent:    5,
		RatePerSecond:    2,
	}
}

// ResilientProvider applies rate limiting, a circuit breaker, retries and a
// bulkhead around another provider, outermost first.
type ResilientProvider struct {
	provider Provider
	logger   *slog.Logger

	limiter  ratelimit.RateLimiter
	breaker  circuitbreaker.CircuitBreaker[*Response]
	retrier  retry.Retry[*Response]
	bulkhead bulkhead.Bulkhead[*Response]
}

// NewResilientProvider wraps provider with the policies enabled in cfg
func NewResilientProvider(provider Provider, cfg Resilience) *ResilientProvider {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("provider", provider.Name())

	rp := &ResilientProvider{provider: provider, logger: logger}

	if cfg.RatePerSecond > 0 {
		rp.limiter = ratelimit.New(&ratelimit.Config{
			Rate:     cfg.RatePerSecond,
			Burst:    cfg.RatePerSecond * 3,
			Interval: time.Second,
		})
	}

	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	if cfg.FailureThreshold > 0 {
		threshold := cfg.FailureThreshold
		rp.breaker = circuitbreaker.New[*Response](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return int(counts.ConsecutiveFailures) >= threshold
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				logger.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
			},
		})
	}

	if cfg.MaxAttempts > 1 {
		rp.retrier = retry.New[*Response](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.RetryDelay,
			MaxDelay:      15 * cfg.RetryDelay,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isRetryableError,
		})
	}

	if cfg.MaxConcurrent > 0 {
		rp.bulkhead = bulkhead.New[*Response](bulkhead.Config{
			MaxConcurrent: cfg.MaxConcurrent,
			MaxQueue:      cfg.MaxConcurrent * 2,
			QueueTimeout:  30 * time.Second,
		})
	}

	return rp
}

func (p *ResilientProvider) Name() string {
	return p.provider.Name()
}

func (p *ResilientProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if p.limiter != nil && !p.limiter.Allow(ctx, p.Name()) {
		return nil, fmt.Errorf("%w: provider %s", ErrRateLimited, p.Name())
	}

	call := func(ctx context.Context) (*Response, error) {
		return p.provider.Generate(ctx, req)
	}
	if p.bulkhead != nil {
		inner := call
		call = func(ctx context.Context) (*Response, error) { return p.bulkhead.Execute(ctx, inner) }
	}
	if p.retrier != nil {
		inner := call
		call = func(ctx context.Context) (*Response, error) { return p.retrier.Do(ctx, inner) }
	}
	if p.breaker != nil {
		inner := call
		call = func(ctx context.Context) (*Response, error) { return p.breaker.Execute(ctx, inner) }
	}

	start := time.Now()
	resp, err := call(ctx)
	if err != nil {
		p.logger.Warn("provider call failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return nil, err
	}

	p.logger.Debug("provider call",
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

// Close stops the rate limiter
func (p *ResilientProvider) Close() error {
	if p.limiter != nil {
		return p.limiter.Close()
	}
	return nil
}

// isRetryableError reports whether a provider error is transient: a
// retryable HTTP status or a network timeout.
func isRetryableError(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
