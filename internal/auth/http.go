// ABOUTME: HTTP middleware for bearer-token authentication and role gating
// ABOUTME: Extracts JWT from the Authorization header and adds the user id to context

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/inkpost/inkpost/internal/store"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// RequireAuth creates an HTTP middleware that extracts and validates bearer
// tokens, attaching the resolved user ID to the request context. Expired and
// forged tokens are rejected identically: the caller only sees 401.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				sendAuthError(w, http.StatusUnauthorized, errMsg)
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				sendAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

// RequireAdmin creates an HTTP middleware that requires the authenticated user
// to hold the ADMIN role. The role is resolved from the store on every request
// so demotions take effect immediately. Must be used after RequireAuth.
func RequireAdmin(users UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := FromContext(r.Context())
			if userID == "" {
				sendAuthError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					sendAuthError(w, http.StatusUnauthorized, "unknown user")
					return
				}
				sendAuthError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if user.Role != store.RoleAdmin {
				sendAuthError(w, http.StatusForbidden, "admin role required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// sendAuthError writes the API error envelope without importing the api package.
func sendAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"errors":[{"msg":` + quoteJSON(msg) + `}]}`))
}

// quoteJSON quotes a plain ASCII message for embedding in a JSON body.
// Messages here are fixed strings, never user input.
func quoteJSON(s string) string {
	return `"` + s + `"`
}
