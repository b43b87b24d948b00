package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Varun5711/blogd/internal/models"
	usermodel "github.com/Varun5711/blogd/internal/models/user"
	"github.com/google/uuid"
)

// MemoryStorage keeps posts and users in process. It backs local development
// when DATABASE_URL is unset and the handler tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	users map[string]*usermodel.User
	now   func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		posts: make(map[string]*models.Post),
		users: make(map[string]*usermodel.User),
		now:   time.Now,
	}
}

func (s *MemoryStorage) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[post.ID]; exists {
		return fmt.Errorf("post with id %s already exists", post.ID)
	}

	now := s.now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *MemoryStorage) GetPost(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, nil
	}

	out := *post
	return &out, nil
}

func (s *MemoryStorage) ListRecentPosts(_ context.Context, limit int) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		out := *post
		posts = append(posts, &out)
	}

	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *MemoryStorage) UpdatePost(_ context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}

	post.Title = req.Title
	post.Content = req.Content
	post.UpdatedAt = s.now()

	out := *post
	return &out, nil
}

func (s *MemoryStorage) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStorage) CreateUser(_ context.Context, req *usermodel.CreateUserRequest, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(req.Email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			return nil, ErrDuplicateEmail
		}
	}

	now := s.now()
	user := &usermodel.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user

	out := *user
	return &out, nil
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) GetUserByID(_ context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, nil
	}
	out := *u
	return &out, nil
}
