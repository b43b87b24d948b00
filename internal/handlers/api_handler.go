package handlers

import (
	"net/http"
	"time"

	"github.com/Varun5711/blogd/internal/auth"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/middleware"
	"github.com/Varun5711/blogd/internal/session"
)

type APIHandler struct {
	sessions   *session.Store
	jwtManager *auth.JWTManager
	log        *logger.Logger
}

func NewAPIHandler(sessions *session.Store, jwtManager *auth.JWTManager, log *logger.Logger) *APIHandler {
	return &APIHandler{
		sessions:   sessions,
		jwtManager: jwtManager,
		log:        log,
	}
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type MeResponse struct {
	UserID string         `json:"userId"`
	Claims map[string]any `json:"claims"`
}

// IssueToken exchanges the session cookie for a bearer token.
func (h *APIHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(h.sessions.Get(r))
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	token, expiresAt, err := h.jwtManager.Sign(map[string]any{session.UserIDKey: userID})
	if err != nil {
		h.log.Error("sign token for %s: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Me runs behind RequireToken.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MeResponse{
		UserID: middleware.GetUserID(r.Context()),
		Claims: middleware.GetClaims(r.Context()),
	})
}
