package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Varun5711/blogd/internal/auth"
	"github.com/Varun5711/blogd/internal/cache"
	"github.com/Varun5711/blogd/internal/events"
	"github.com/Varun5711/blogd/internal/idgen"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/middleware"
	"github.com/Varun5711/blogd/internal/models"
	"github.com/Varun5711/blogd/internal/service"
	"github.com/Varun5711/blogd/internal/session"
	"github.com/Varun5711/blogd/internal/storage"
	"github.com/Varun5711/blogd/internal/validation"
	"github.com/redis/go-redis/v9"
)

type testServer struct {
	handler  http.Handler
	sessions *session.Store
	store    *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithRedis(t, nil)
}

func newTestServerWithRedis(t *testing.T, redisClient *redis.Client) *testServer {
	t.Helper()
	log := logger.NewNop()

	sessions, err := session.NewStore(session.DefaultConfig([]string{"test-secret"}, false))
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	gen, err := idgen.NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator() error: %v", err)
	}

	store := storage.NewMemoryStorage()
	jwtManager := auth.NewJWTManager("test-jwt-secret", time.Hour)
	users := service.NewUserService(store, service.DemoAccount{
		Email:    "user@example.com",
		Password: "password",
		UserID:   "some-unique-user-id",
	})
	posts := service.NewPostService(store, cache.NewMultiTierCache(32, nil, time.Minute), gen, log)

	router := &Router{
		Auth:        NewAuthHandler(sessions, users, events.NewAuthProducer(redisClient, events.DefaultAuthStream, 100), log),
		Posts:       NewPostHandler(posts, log),
		API:         NewAPIHandler(sessions, jwtManager, log),
		Health:      NewHealthHandler(nil),
		Guard:       middleware.NewAuthMiddleware(sessions, jwtManager, log),
		LoginLimits: middleware.NewRateLimiter(redisClient, 5, time.Minute, log),
	}

	return &testServer{handler: router.Handler(), sessions: sessions, store: store}
}

func (s *testServer) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	t.Fatalf("expected %s cookie in response, headers: %v", session.DefaultCookieName, rec.Header())
	return nil
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/login", url.Values{"email": {"user@example.com"}, "password": {"password"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("login: expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

func decodeFormErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp models.FormErrorsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode errors body: %v", err)
	}
	return resp.Errors
}

func authStatus(t *testing.T, s *testServer, cookies ...*http.Cookie) bool {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/", nil, cookies...)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", rec.Code)
	}
	var resp AuthStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode auth status: %v", err)
	}
	return resp.AuthStatus
}

func TestLogin_ShortPasswordIsRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/login", url.Values{"email": {"a@b.com"}, "password": {"short"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errs := decodeFormErrors(t, rec)
	if errs["password"] != validation.MsgPasswordTooShort {
		t.Errorf("expected password error, got %v", errs)
	}
	if _, ok := errs["email"]; ok {
		t.Errorf("did not expect email error, got %v", errs)
	}
	if rec.Header().Get("Set-Cookie") != "" {
		t.Error("did not expect a cookie on validation failure")
	}
}

func TestLogin_DemoAccountThenAuthStatus(t *testing.T) {
	s := newTestServer(t)

	if authStatus(t, s) {
		t.Fatal("expected anonymous visitor before login")
	}

	rec := s.do(t, http.MethodPost, "/login", url.Values{"email": {"user@example.com"}, "password": {"password"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %s", loc)
	}
	header := rec.Header().Get("Set-Cookie")
	for _, want := range []string{"HttpOnly", "SameSite=Lax", "Path=/", "Max-Age=604800"} {
		if !strings.Contains(header, want) {
			t.Errorf("expected %q in Set-Cookie %q", want, header)
		}
	}

	if !authStatus(t, s, sessionCookie(t, rec)) {
		t.Error("expected authStatus true after replaying the cookie")
	}
}

func TestLogin_InvalidCredentialsAreGeneric(t *testing.T) {
	s := newTestServer(t)

	for _, form := range []url.Values{
		{"email": {"user@example.com"}, "password": {"wrong-password"}},
		{"email": {"nobody@example.com"}, "password": {"password"}},
	} {
		rec := s.do(t, http.MethodPost, "/login", form)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		errs := decodeFormErrors(t, rec)
		if len(errs) != 1 || errs["email"] != "Invalid credentials" {
			t.Errorf("expected generic credential error, got %v", errs)
		}
	}
}

func TestAuthPages_RedirectWhenSignedIn(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/login", "/signup"} {
		rec := s.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s anonymous: expected 200, got %d", path, rec.Code)
		}
	}

	cookie := s.login(t)
	for _, path := range []string{"/login", "/signup"} {
		rec := s.do(t, http.MethodGet, path, nil, cookie)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
			t.Errorf("%s signed in: expected redirect to /, got %d %s", path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"name":            {"Ann"},
		"email":           {"ann@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}
	rec := s.do(t, http.MethodPost, "/signup", form)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if !authStatus(t, s, sessionCookie(t, rec)) {
		t.Error("expected new account to be signed in")
	}

	rec = s.do(t, http.MethodPost, "/signup", form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", rec.Code)
	}
	if errs := decodeFormErrors(t, rec); errs["email"] == "" {
		t.Errorf("expected email field error, got %v", errs)
	}

	rec = s.do(t, http.MethodPost, "/login", url.Values{"email": {"ann@example.com"}, "password": {"secret1"}})
	if rec.Code != http.StatusFound {
		t.Errorf("expected stored account to log in, got %d", rec.Code)
	}
}

func TestSignup_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/signup", url.Values{
		"name":            {""},
		"email":           {"not-an-email"},
		"password":        {"secret1"},
		"confirmPassword": {"secret2"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errs := decodeFormErrors(t, rec)
	for _, field := range []string{"name", "email", "confirmPassword"} {
		if errs[field] == "" {
			t.Errorf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	rec := s.do(t, http.MethodPost, "/logout", nil, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, "Max-Age=0") {
		t.Errorf("expected expiring cookie, got %q", header)
	}
	if authStatus(t, s, sessionCookie(t, rec)) {
		t.Error("expected cleared cookie to be anonymous")
	}
}

func TestPosts_RequireLoginForMutations(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/posts/new"},
		{http.MethodPost, "/posts/new"},
		{http.MethodPost, "/posts/abc"},
		{http.MethodGet, "/posts/abc/edit"},
		{http.MethodPost, "/posts/abc/edit"},
	}

	for _, tt := range tests {
		rec := s.do(t, tt.method, tt.path, url.Values{"title": {"t"}})
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
			t.Errorf("%s %s: expected redirect to /login, got %d %s", tt.method, tt.path, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestPosts_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	rec := s.do(t, http.MethodPost, "/posts/new", url.Values{"title": {""}, "content": {"Body"}, "author": {"Ann"}}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rec.Code)
	}
	if errs := decodeFormErrors(t, rec); errs["title"] != validation.MsgTitleRequired {
		t.Errorf("expected title error, got %v", errs)
	}

	rec = s.do(t, http.MethodPost, "/posts/new", url.Values{"title": {"Hello"}, "content": {"Body"}, "author": {"Ann"}}, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/posts/") {
		t.Fatalf("expected redirect to the new post, got %s", location)
	}
	id := strings.TrimPrefix(location, "/posts/")

	rec = s.do(t, http.MethodGet, location, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", location, rec.Code)
	}
	var shown models.PostResponse
	if err := json.NewDecoder(rec.Body).Decode(&shown); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if shown.Post.ID != id || shown.Post.Title != "Hello" {
		t.Errorf("unexpected post: %+v", shown.Post)
	}

	rec = s.do(t, http.MethodPost, location+"/edit", url.Values{"title": {""}, "content": {"x"}}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete edit, got %d", rec.Code)
	}
	if errs := decodeFormErrors(t, rec); errs["form"] != validation.MsgUpdateRequired {
		t.Errorf("expected form error, got %v", errs)
	}

	rec = s.do(t, http.MethodPost, location+"/edit", url.Values{"title": {"Updated"}, "content": {"New body"}}, cookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != location {
		t.Fatalf("expected redirect to %s, got %d %s", location, rec.Code, rec.Header().Get("Location"))
	}

	rec = s.do(t, http.MethodGet, "/posts", nil)
	var list models.ListPostsResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Posts) != 1 || list.Posts[0].Title != "Updated" {
		t.Errorf("expected updated post in list, got %+v", list.Posts)
	}

	rec = s.do(t, http.MethodPost, location, url.Values{"_action": {"delete"}}, cookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/posts" {
		t.Fatalf("expected redirect to /posts, got %d %s", rec.Code, rec.Header().Get("Location"))
	}

	rec = s.do(t, http.MethodGet, location, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Message != "Post not found" {
		t.Errorf("expected 'Post not found', got %q", errResp.Message)
	}
}

func TestPosts_UnknownAction(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t)

	rec := s.do(t, http.MethodPost, "/posts/abc", url.Values{"_action": {"archive"}}, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAPI_TokenFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous token request: expected 401, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/token", nil, s.login(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var token TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if token.Token == "" || !token.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected token response: %+v", token)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", me.Code)
	}
	var resp MeResponse
	if err := json.NewDecoder(me.Body).Decode(&resp); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if resp.UserID != "some-unique-user-id" {
		t.Errorf("expected demo user id, got %q", resp.UserID)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token+"x")
	me = httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	if me.Code != http.StatusUnauthorized {
		t.Errorf("tampered token: expected 401, got %d", me.Code)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
	}{
		{"no deps", nil, http.StatusOK},
		{"healthy", map[string]Pinger{"postgres": stubPinger{}}, http.StatusOK},
		{"redis down", map[string]Pinger{"postgres": stubPinger{}, "redis": stubPinger{err: errors.New("dial tcp: refused")}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.deps).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
