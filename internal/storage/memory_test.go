package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Varun5711/blogd/internal/models"
	usermodel "github.com/Varun5711/blogd/internal/models/user"
)

func TestMemoryStorage_PostLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	post := &models.Post{ID: "p1", Title: "Hello", Content: "World", Author: "Ann"}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost() error: %v", err)
	}
	if post.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if err := s.CreatePost(ctx, &models.Post{ID: "p1"}); err == nil {
		t.Error("expected duplicate id to fail")
	}

	got, err := s.GetPost(ctx, "p1")
	if err != nil || got == nil {
		t.Fatalf("GetPost() = %v, %v", got, err)
	}
	if got.Title != "Hello" {
		t.Errorf("expected title Hello, got %s", got.Title)
	}

	updated, err := s.UpdatePost(ctx, "p1", &models.UpdatePostRequest{Title: "New", Content: "Body"})
	if err != nil {
		t.Fatalf("UpdatePost() error: %v", err)
	}
	if updated.Title != "New" || updated.Author != "Ann" {
		t.Errorf("unexpected updated post: %+v", updated)
	}

	if err := s.DeletePost(ctx, "p1"); err != nil {
		t.Fatalf("DeletePost() error: %v", err)
	}
	got, err = s.GetPost(ctx, "p1")
	if err != nil || got != nil {
		t.Errorf("expected nil, nil after delete, got %v, %v", got, err)
	}
}

func TestMemoryStorage_MissingPost(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	if _, err := s.UpdatePost(ctx, "nope", &models.UpdatePostRequest{Title: "a", Content: "b"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from UpdatePost, got %v", err)
	}
	if err := s.DeletePost(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound from DeletePost, got %v", err)
	}
}

func TestMemoryStorage_ListRecentPosts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		post := &models.Post{ID: fmt.Sprintf("p%02d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost() error: %v", err)
		}
	}

	posts, err := s.ListRecentPosts(ctx, 20)
	if err != nil {
		t.Fatalf("ListRecentPosts() error: %v", err)
	}
	if len(posts) != 20 {
		t.Fatalf("expected 20 posts, got %d", len(posts))
	}
	if posts[0].ID != "p24" || posts[19].ID != "p05" {
		t.Errorf("expected newest first, got first=%s last=%s", posts[0].ID, posts[19].ID)
	}
}

func TestMemoryStorage_Users(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	user, err := s.CreateUser(ctx, &usermodel.CreateUserRequest{Email: "Ann@Example.com", Name: "Ann"}, "hash")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}

	if _, err := s.CreateUser(ctx, &usermodel.CreateUserRequest{Email: "ann@example.com", Name: "Other"}, "hash"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "ANN@example.com")
	if err != nil || byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail() = %v, %v", byEmail, err)
	}
	if byEmail.PasswordHash != "hash" {
		t.Errorf("expected password hash to be kept, got %q", byEmail.PasswordHash)
	}

	byID, err := s.GetUserByID(ctx, user.ID)
	if err != nil || byID == nil || byID.Email != "Ann@Example.com" {
		t.Fatalf("GetUserByID() = %v, %v", byID, err)
	}

	missing, err := s.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown email, got %v, %v", missing, err)
	}
}
