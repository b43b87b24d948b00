package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	DefaultCookieName = "session"
	DefaultMaxAge     = 7 * 24 * time.Hour
)

// Config is built once at startup and handed to NewStore. Nothing in this
// package keeps process-wide state.
type Config struct {
	Name string
	// Secrets verify incoming cookies in order; only Secrets[0] signs.
	Secrets  []string
	Path     string
	Domain   string
	MaxAge   time.Duration
	HTTPOnly bool
	Secure   bool
	SameSite http.SameSite
}

// DefaultConfig returns the cookie settings used by the web app. secure should
// be true only in production, where the site is served over TLS.
func DefaultConfig(secrets []string, secure bool) Config {
	return Config{
		Name:     DefaultCookieName,
		Secrets:  secrets,
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c Config) validate() error {
	if c.Name == "" {
		return errors.New("session: cookie name is required")
	}
	if len(c.Secrets) == 0 {
		return errors.New("session: at least one secret is required")
	}
	for _, s := range c.Secrets {
		if s == "" {
			return errors.New("session: secrets must not be empty")
		}
	}
	if c.MaxAge <= 0 {
		return errors.New("session: max age must be positive")
	}
	return nil
}

func (c Config) options(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   maxAge,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		SameSite: c.SameSite,
	}
}
