package session

import (
	"maps"

	"github.com/google/uuid"
)

// UserIDKey holds the authenticated user's id. Its presence is the only thing
// that makes a session authenticated.
const UserIDKey = "userId"

// Session is a per-request view of the cookie payload. Mutations stay in
// memory until the Store commits them.
type Session struct {
	id     string
	values map[string]string
	isNew  bool
}

type payload struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`
}

func newSession() *Session {
	return &Session{
		id:     uuid.NewString(),
		values: make(map[string]string),
		isNew:  true,
	}
}

func (s *Session) ID() string {
	return s.id
}

// IsNew is true when no valid cookie backed this session.
func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *Session) Set(key, value string) {
	s.values[key] = value
}

func (s *Session) Unset(key string) {
	delete(s.values, key)
}

// Values returns a copy of the payload.
func (s *Session) Values() map[string]string {
	return maps.Clone(s.values)
}

func (s *Session) payload() payload {
	return payload{ID: s.id, Values: s.values}
}
