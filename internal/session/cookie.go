package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// newCookie applies the configured attributes. maxAge < 0 produces an
// already-expired cookie.
func newCookie(cfg Config, value string, maxAge int) *http.Cookie {
	return sessions.NewCookie(cfg.Name, value, cfg.options(maxAge))
}

// SetCookie is a convenience for handlers that already hold a header value
// from Commit or Destroy.
func SetCookie(w http.ResponseWriter, header string) {
	w.Header().Add("Set-Cookie", header)
}
