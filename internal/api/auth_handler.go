package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/auth"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
)

// SessionManager creates and ends sessions. *session.Registry implements it.
type SessionManager interface {
	Create(ctx context.Context, username, apiKey string) (*session.Session, error)
	Remove(id uuid.UUID) bool
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	credentials *auth.Credentials
	jwtService  auth.JWTService
	sessions    SessionManager
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	credentials *auth.Credentials,
	jwtService auth.JWTService,
	sessions SessionManager,
) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		jwtService:  jwtService,
		sessions:    sessions,
	}
}

// Login handles POST /api/auth/login. It starts a session bound to the
// supplied API key and returns a token for it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.credentials.Check(req.Username, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"Invalid username or password", err, shared.WithElevatedLogLevel())
		return
	}

	s, err := h.sessions.Create(r.Context(), req.Username, req.APIKey)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(r.Context(), s.ID, req.Username)
	if err != nil {
		h.sessions.Remove(s.ID)
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	log.InfoContext(r.Context(), "user logged in",
		"username", req.Username,
		"session_id", s.ID,
		"own_api_key", req.APIKey != "")

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		SessionID:   s.ID,
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		Model:       s.Workspace.Model,
	})
}

// Logout handles POST /api/auth/logout. The session and everything held
// in it are dropped; saved courses stay on disk.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	h.sessions.Remove(s.ID)

	logger.FromContext(r.Context()).InfoContext(r.Context(), "user logged out",
		"username", s.Username,
		"session_id", s.ID)

	w.WriteHeader(http.StatusNoContent)
}
