package daemon

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"
)

// newAdviceLimiter returns a per-client token bucket allowing perMinute
// requests, or nil when perMinute is zero.
func newAdviceLimiter(perMinute int) ratelimit.RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return ratelimit.New(&ratelimit.Config{
		Rate:     perMinute,
		Burst:    perMinute,
		Interval: time.Minute,
	})
}

const errTooManyRequests = "too many requests, please try again later"

// allowAdvice takes one token for client. It always allows when limiting is off.
func (s *Server) allowAdvice(ctx context.Context, client string) bool {
	return s.limiter == nil || s.limiter.Allow(ctx, client)
}

// limit wraps an advisor handler with the per-client rate limit
func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !s.allowAdvice(r.Context(), key) {
			slog.Warn("rate limit exceeded",
				"client", key,
				"path", r.URL.Path,
				"correlation_id", GetCorrelationID(r.Context()),
			)
			w.Header().Set("Retry-After", "60")
			s.jsonError(w, http.StatusTooManyRequests, errTooManyRequests, nil)
			return
		}
		next(w, r)
	}
}

// clientKey identifies the caller by remote host
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
