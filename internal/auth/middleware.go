package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clawdbot/gateway/internal/httputil"
)

// Middleware returns a chi middleware that authenticates requests via Bearer
// token. The expected token is read per request so config hot-reload takes
// effect without a restart. An empty configured token rejects everything.
func Middleware(token func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteAuthError(w, reqID, "Missing Authorization header. Use: Authorization: Bearer <token>")
				return
			}

			presented := strings.TrimPrefix(authHeader, "Bearer ")
			if presented == authHeader {
				httputil.WriteAuthError(w, reqID, "Invalid Authorization format. Use: Authorization: Bearer <token>")
				return
			}
			if presented == "" {
				httputil.WriteAuthError(w, reqID, "Empty bearer token")
				return
			}

			expected := token()
			if expected == "" {
				slog.Warn("auth rejected: no gateway token configured", "request_id", reqID)
				httputil.WriteAuthError(w, reqID, "Gateway has no API token configured")
				return
			}

			if !tokensEqual(presented, expected) {
				slog.Warn("auth failed: token mismatch", "request_id", reqID)
				httputil.WriteAuthError(w, reqID, "Invalid token")
				return
			}

			ctx := ContextWithCaller(r.Context(), &Caller{ID: callerID(presented)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokensEqual compares tokens in constant time. Both sides are hashed first
// so the comparison does not leak length information either.
func tokensEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

// callerID derives a stable, safe-to-log identifier from a token.
func callerID(token string) string {
	h := sha256.Sum256([]byte(token))
	return "tok_" + hex.EncodeToString(h[:4])
}
