package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/tfsearch/searchd/pkg/errors"
)

// RateLimit throttles requests through a shared token bucket. Requests that
// find the bucket empty are rejected immediately with 429 rather than
// queued.
func RateLimit(limit float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(errors.HTTPStatusCode(errors.ErrRateLimited))
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
