package middleware

import (
	"net/http"
	"strings"

	"dochive/internal/auth"
	"dochive/internal/httputil"
)

// Auth resolves the request's viewer. Requests without a bearer token pass
// through as anonymous; requests carrying a token must carry a valid one, so
// a caller never silently degrades to the anonymous view of the data.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "malformed Authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			r = httputil.WithViewer(r, claims.Viewer())
			next.ServeHTTP(w, r)
		})
	}
}
