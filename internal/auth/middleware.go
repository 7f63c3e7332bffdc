package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	VerifyToken(token string) error
}

// AdminAuthMiddleware rejects requests without a valid bearer token. A nil
// verifier lets every request through, which keeps the write endpoint open
// when no JWT secret is configured.
func AdminAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") || verifier.VerifyToken(strings.TrimPrefix(header, "Bearer ")) != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
