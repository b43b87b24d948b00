package session

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "blogd session cookie v1"

// Store issues and reads signed, encrypted session cookies. All state lives in
// the cookie; the Store itself is immutable after construction and safe for
// concurrent use.
type Store struct {
	cfg    Config
	codecs []securecookie.Codec
	maxAge int
}

func NewStore(cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxAge := int(cfg.MaxAge.Seconds())
	codecs := make([]securecookie.Codec, 0, len(cfg.Secrets))
	for i, secret := range cfg.Secrets {
		hashKey, blockKey, err := deriveKeys(secret)
		if err != nil {
			return nil, fmt.Errorf("session: failed to derive keys for secret %d: %w", i, err)
		}

		codec := securecookie.New(hashKey, blockKey)
		codec.MaxAge(maxAge)
		codec.SetSerializer(securecookie.JSONEncoder{})
		codecs = append(codecs, codec)
	}

	return &Store{
		cfg:    cfg,
		codecs: codecs,
		maxAge: maxAge,
	}, nil
}

// deriveKeys expands one secret into an HMAC key and an AES-256 key so that a
// single configured string both signs and encrypts.
func deriveKeys(secret string) ([]byte, []byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))

	hashKey := make([]byte, 64)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, err
	}
	blockKey := make([]byte, 32)
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, err
	}

	return hashKey, blockKey, nil
}

func (s *Store) CookieName() string {
	return s.cfg.Name
}

// Get reads the session cookie from r. A missing or invalid cookie yields a
// fresh, empty session.
func (s *Store) Get(r *http.Request) *Session {
	cookie, err := r.Cookie(s.cfg.Name)
	if err != nil {
		return newSession()
	}
	return s.decode(cookie.Value)
}

// Parse does the same as Get for a raw Cookie header value.
func (s *Store) Parse(cookieHeader string) *Session {
	if cookieHeader == "" {
		return newSession()
	}

	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return newSession()
	}
	for _, c := range cookies {
		if c.Name == s.cfg.Name {
			return s.decode(c.Value)
		}
	}
	return newSession()
}

func (s *Store) decode(value string) *Session {
	var p payload
	if err := securecookie.DecodeMulti(s.cfg.Name, value, &p, s.codecs...); err != nil {
		return newSession()
	}
	if p.ID == "" {
		return newSession()
	}
	if p.Values == nil {
		p.Values = make(map[string]string)
	}

	return &Session{id: p.ID, values: p.Values}
}

// Commit encodes sess with the primary secret and returns a Set-Cookie header
// value. Every commit restarts the max-age window.
func (s *Store) Commit(sess *Session) (string, error) {
	value, err := securecookie.EncodeMulti(s.cfg.Name, sess.payload(), s.codecs[0])
	if err != nil {
		return "", fmt.Errorf("session: failed to encode cookie: %w", err)
	}

	cookie := newCookie(s.cfg, value, s.maxAge)
	return cookie.String(), nil
}

// Destroy returns a Set-Cookie header value that expires the cookie now. The
// in-memory session is cleared too.
func (s *Store) Destroy(sess *Session) (string, error) {
	if sess != nil {
		clear(sess.values)
	}

	cookie := newCookie(s.cfg, "", -1)
	return cookie.String(), nil
}
