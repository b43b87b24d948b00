package storage

import (
	"context"
	"errors"

	"github.com/Varun5711/blogd/internal/models"
	usermodel "github.com/Varun5711/blogd/internal/models/user"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Get* methods return nil, nil when no row matches. Update and Delete report
// ErrNotFound.
type PostStorage interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListRecentPosts(ctx context.Context, limit int) ([]*models.Post, error)
	UpdatePost(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

type UserStorage interface {
	CreateUser(ctx context.Context, req *usermodel.CreateUserRequest, passwordHash string) (*usermodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
}
