package handlers

import (
	"net/http"

	"github.com/Varun5711/blogd/internal/middleware"
)

type Router struct {
	Auth        *AuthHandler
	Posts       *PostHandler
	API         *APIHandler
	Health      *HealthHandler
	Guard       *middleware.AuthMiddleware
	LoginLimits *middleware.RateLimiter
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rt.Auth.Root)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.HandleFunc("GET /login", rt.Auth.Page)
	mux.HandleFunc("POST /login", rt.LoginLimits.Limit(rt.Auth.Login))
	mux.HandleFunc("GET /signup", rt.Auth.Page)
	mux.HandleFunc("POST /signup", rt.LoginLimits.Limit(rt.Auth.Signup))
	mux.HandleFunc("POST /logout", rt.Auth.Logout)

	mux.HandleFunc("GET /posts", rt.Posts.List)
	mux.HandleFunc("GET /posts/new", rt.Guard.RequireSession(rt.Posts.NewForm))
	mux.HandleFunc("POST /posts/new", rt.Guard.RequireSession(rt.Posts.Create))
	mux.HandleFunc("GET /posts/{id}", rt.Posts.Show)
	mux.HandleFunc("POST /posts/{id}", rt.Guard.RequireSession(rt.Posts.Action))
	mux.HandleFunc("GET /posts/{id}/edit", rt.Guard.RequireSession(rt.Posts.Show))
	mux.HandleFunc("POST /posts/{id}/edit", rt.Guard.RequireSession(rt.Posts.Edit))

	mux.HandleFunc("POST /api/token", rt.API.IssueToken)
	mux.HandleFunc("GET /api/me", rt.Guard.RequireToken(rt.API.Me))

	return mux
}
