package handlers

import (
	"errors"
	"net/http"

	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/middleware"
	"github.com/Varun5711/blogd/internal/models"
	"github.com/Varun5711/blogd/internal/service"
	"github.com/Varun5711/blogd/internal/validation"
)

const msgPostNotFound = "Post not found"

type PostHandler struct {
	posts *service.PostService
	log   *logger.Logger
}

func NewPostHandler(posts *service.PostService, log *logger.Logger) *PostHandler {
	return &PostHandler{
		posts: posts,
		log:   log,
	}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListRecent(r.Context())
	if err != nil {
		h.log.Error("list posts: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load posts")
		return
	}

	resp := models.ListPostsResponse{Posts: make([]models.Post, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, *p)
	}
	respondJSON(w, http.StatusOK, resp)
}

// NewForm is the loader for the create form; it has nothing to load.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct{}{})
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	req := &models.CreatePostRequest{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
		Author:  r.PostFormValue("author"),
	}

	if errs := validation.ValidatePost(req.Title, req.Content, req.Author); errs != nil {
		respondFormErrors(w, http.StatusBadRequest, errs)
		return
	}

	post, err := h.posts.Create(r.Context(), req)
	if err != nil {
		h.log.Error("create post for user %s: %v", middleware.GetUserID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "Failed to create the post")
		return
	}

	http.Redirect(w, r, "/posts/"+post.ID, http.StatusFound)
}

// Show also serves the edit loader.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, service.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		h.log.Error("get post %s: %v", r.PathValue("id"), err)
		respondError(w, http.StatusInternalServerError, "Failed to load the post")
		return
	}

	respondJSON(w, http.StatusOK, models.PostResponse{Post: *post})
}

// Action handles form posts to /posts/{id}. Only _action=delete is defined.
func (h *PostHandler) Action(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	if r.PostFormValue("_action") != "delete" {
		respondError(w, http.StatusBadRequest, "unsupported action")
		return
	}

	id := r.PathValue("id")
	err := h.posts.Delete(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		h.log.Error("delete post %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete the post")
		return
	}

	h.log.Info("deleted post %s by user %s", id, middleware.GetUserID(r.Context()))
	http.Redirect(w, r, "/posts", http.StatusFound)
}

func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	id := r.PathValue("id")
	req := &models.UpdatePostRequest{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}

	if errs := validation.ValidatePostUpdate(req.Title, req.Content); errs != nil {
		respondFormErrors(w, http.StatusBadRequest, errs)
		return
	}

	_, err := h.posts.Update(r.Context(), id, req)
	if errors.Is(err, service.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		h.log.Error("update post %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to update the post")
		return
	}

	http.Redirect(w, r, "/posts/"+id, http.StatusFound)
}
