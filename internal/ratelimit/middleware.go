package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/clawdbot/gateway/internal/auth"
	"github.com/clawdbot/gateway/internal/httputil"
	"github.com/clawdbot/gateway/internal/telemetry"
)

const (
	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// Middleware returns chi middleware that enforces a per-caller request rate.
// The limit is read per request so config hot-reload takes effect; a limit of
// zero or less disables the check.
func Middleware(limiter *Limiter, requestsPerMinute func() int, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			caller, ok := auth.CallerFromContext(r.Context())
			if !ok {
				// No caller identity — let the request pass; the auth
				// middleware rejects unauthenticated traffic.
				next.ServeHTTP(w, r)
				return
			}

			rpm := requestsPerMinute()
			if rpm <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			result, _ := limiter.Check(r.Context(), "rpm:"+caller.ID, int64(rpm), time.Minute)

			w.Header().Set(headerRateLimitRequests, strconv.Itoa(rpm))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"caller", caller.ID,
					"limit", rpm,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit(caller.ID)
				}
				w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				httputil.WriteRateLimitError(w, reqID,
					fmt.Sprintf("Rate limit exceeded: %d requests per minute. Retry after %s", rpm, result.ResetAt.Format(time.RFC3339)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
