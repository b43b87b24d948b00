package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Varun5711/blogd/internal/auth"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/session"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	ClaimsKey contextKey = "claims"
)

type AuthMiddleware struct {
	sessions   *session.Store
	jwtManager *auth.JWTManager
	loginPath  string
	log        *logger.Logger
}

func NewAuthMiddleware(sessions *session.Store, jwtManager *auth.JWTManager, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		jwtManager: jwtManager,
		loginPath:  "/login",
		log:        log,
	}
}

// RequireSession redirects anonymous visitors to the login page and stores the
// session user id on the request context otherwise.
func (m *AuthMiddleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := session.UserID(m.sessions.Get(r))
		if userID == "" {
			http.Redirect(w, r, m.loginPath, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireToken accepts "Authorization: Bearer <jwt>". Any verification
// failure is a plain 401.
func (m *AuthMiddleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, ok := m.jwtManager.Verify(token)
		if !ok {
			m.log.Debug("rejected bearer token from %s", ClientIP(r))
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		if userID, ok := claims[session.UserIDKey].(string); ok {
			ctx = context.WithValue(ctx, UserIDKey, userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

func GetClaims(ctx context.Context) map[string]any {
	if claims, ok := ctx.Value(ClaimsKey).(map[string]any); ok {
		return claims
	}
	return nil
}
