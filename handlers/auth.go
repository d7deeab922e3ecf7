package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/constructpro/constructpro-backend/models"
	"github.com/constructpro/constructpro-backend/repository"
)

const sessionLifetime = 24 * time.Hour

type session struct {
	UserID    uint
	ExpiresAt time.Time
}

// SessionStore holds opaque bearer tokens in memory. Sessions do not survive
// a restart; clients just log in again.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session)}
}

// Create issues a new token for the user.
func (s *SessionStore) Create(userID uint) (string, time.Time) {
	token := uuid.NewString()
	expiresAt := time.Now().Add(sessionLifetime)

	s.mu.Lock()
	s.sessions[token] = session{UserID: userID, ExpiresAt: expiresAt}
	s.mu.Unlock()
	return token, expiresAt
}

// Lookup resolves a token to a user ID, dropping it when expired.
func (s *SessionStore) Lookup(token string) (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.UserID, true
}

// Revoke removes a token.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

type AuthHandler struct {
	UserRepo *repository.UserRepository
	Sessions *SessionStore
}

func NewAuthHandler(userRepo *repository.UserRepository, sessions *SessionStore) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, Sessions: sessions}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}
	if !user.CheckPassword(payload.Password) {
		WriteAPIError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	token, expiresAt := h.Sessions.Create(user.ID)

	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		User:      userForResponse,
		ExpiresAt: expiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.Sessions.Revoke(token)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CurrentUser retrieves the authenticated user from the request context.
// This handler must sit behind AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		WriteAPIError(w, http.StatusInternalServerError, "no_user_context", "Could not retrieve user from context")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, userForResponse)
}
