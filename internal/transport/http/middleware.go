package httptransport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests beyond the limiter's rate with 429. The
// limiter is shared across all callers; this is a service-wide throttle,
// not a per-client one.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeErrorMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
