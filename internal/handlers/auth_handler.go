package handlers

import (
	"errors"
	"net/http"

	"github.com/Varun5711/blogd/internal/enrichment"
	"github.com/Varun5711/blogd/internal/events"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/middleware"
	"github.com/Varun5711/blogd/internal/service"
	"github.com/Varun5711/blogd/internal/session"
	"github.com/Varun5711/blogd/internal/validation"
)

const msgInvalidCredentials = "Invalid credentials"

type AuthHandler struct {
	sessions *session.Store
	users    *service.UserService
	audit    *events.AuthProducer
	log      *logger.Logger
}

func NewAuthHandler(sessions *session.Store, users *service.UserService, audit *events.AuthProducer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		users:    users,
		audit:    audit,
		log:      log,
	}
}

type AuthStatusResponse struct {
	AuthStatus bool `json:"authStatus"`
}

// Root reports whether the request carries a valid signed-in session.
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, AuthStatusResponse{AuthStatus: h.sessions.IsAuthenticated(r)})
}

// Page serves the login and signup loaders: signed-in visitors go home.
func (h *AuthHandler) Page(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	respondJSON(w, http.StatusOK, struct{}{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if errs := validation.ValidateLogin(email, password); errs != nil {
		respondFormErrors(w, http.StatusBadRequest, errs)
		return
	}

	client := enrichment.ParseUserAgent(r.UserAgent())

	userID, err := h.users.Authenticate(r.Context(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.log.Info("login rejected client=%s", client)
		h.record(r, events.EventLoginFailed, "", client)
		respondFormErrors(w, http.StatusUnauthorized, validation.FieldErrors{"email": msgInvalidCredentials})
		return
	}
	if err != nil {
		h.log.Error("login failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	if !h.signIn(w, r, userID) {
		return
	}
	h.log.Info("login succeeded user=%s client=%s", userID, client)
	h.record(r, events.EventLogin, userID, client)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	confirmPassword := r.PostFormValue("confirmPassword")

	if errs := validation.ValidateSignup(email, password, confirmPassword, name); errs != nil {
		respondFormErrors(w, http.StatusBadRequest, errs)
		return
	}

	user, err := h.users.Signup(r.Context(), name, email, password)
	if errors.Is(err, service.ErrEmailTaken) {
		respondFormErrors(w, http.StatusBadRequest, validation.FieldErrors{"email": "Email is already registered"})
		return
	}
	if errors.Is(err, service.ErrPasswordTooLong) {
		respondFormErrors(w, http.StatusBadRequest, validation.FieldErrors{"password": "Password must be at most 72 bytes"})
		return
	}
	if err != nil {
		h.log.Error("signup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	if !h.signIn(w, r, user.ID) {
		return
	}
	client := enrichment.ParseUserAgent(r.UserAgent())
	h.log.Info("signup succeeded user=%s client=%s", user.ID, client)
	h.record(r, events.EventSignup, user.ID, client)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(r)
	userID := session.UserID(sess)

	header, err := h.sessions.Destroy(sess)
	if err != nil {
		h.log.Error("failed to destroy session: %v", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}
	session.SetCookie(w, header)
	if userID != "" {
		h.record(r, events.EventLogout, userID, enrichment.ParseUserAgent(r.UserAgent()))
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// record appends to the audit stream. Failures are logged only.
func (h *AuthHandler) record(r *http.Request, eventType events.AuthEventType, userID string, client *enrichment.UAInfo) {
	err := h.audit.Publish(r.Context(), &events.AuthEvent{
		Type:   eventType,
		UserID: userID,
		IP:     middleware.ClientIP(r),
		Client: client.String(),
	})
	if err != nil {
		h.log.Warn("audit event dropped: %v", err)
	}
}

// signIn writes the session cookie. On failure it has already responded.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, userID string) bool {
	sess := h.sessions.Get(r)
	sess.Set(session.UserIDKey, userID)

	header, err := h.sessions.Commit(sess)
	if err != nil {
		h.log.Error("failed to commit session: %v", err)
		respondError(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return false
	}

	session.SetCookie(w, header)
	return true
}
