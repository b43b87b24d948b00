package session

import "net/http"

// IsAuthenticated reports whether sess carries a non-empty user id.
func IsAuthenticated(sess *Session) bool {
	return UserID(sess) != ""
}

func UserID(sess *Session) string {
	if sess == nil {
		return ""
	}
	v, _ := sess.Get(UserIDKey)
	return v
}

// IsAuthenticated resolves the auth status of r from its cookie alone.
func (s *Store) IsAuthenticated(r *http.Request) bool {
	return IsAuthenticated(s.Get(r))
}
