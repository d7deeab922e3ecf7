package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/constructpro/constructpro-backend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// AuthMiddleware verifies the bearer token against the session store and, if
// valid, fetches the user and adds them to the request context.
func AuthMiddleware(sessions *SessionStore, userRepo *repository.UserRepository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
			return
		}

		userID, ok := sessions.Lookup(token)
		if !ok {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session token")
			return
		}

		user, err := userRepo.GetByID(userID)
		if err != nil {
			// The user may have been deleted after the session was issued.
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
