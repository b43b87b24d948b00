package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Varun5711/blogd/internal/auth"
	usermodel "github.com/Varun5711/blogd/internal/models/user"
	"github.com/Varun5711/blogd/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooLong    = errors.New("password too long")
)

// dummyPasswordHash is compared against when the email is unknown so a miss
// costs the same bcrypt work as a wrong password.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("blogd-unknown-account")
	return hash
})

var checkPassword = auth.CheckPassword

// DemoAccount is a fixed login that works without a users table.
type DemoAccount struct {
	Email    string
	Password string
	UserID   string
}

type UserService struct {
	userStorage storage.UserStorage
	demo        DemoAccount
}

func NewUserService(userStorage storage.UserStorage, demo DemoAccount) *UserService {
	return &UserService{
		userStorage: userStorage,
		demo:        demo,
	}
}

func (s *UserService) Signup(ctx context.Context, name, email, password string) (*usermodel.User, error) {
	email = strings.TrimSpace(email)
	if s.isDemoEmail(email) {
		return nil, ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStorage.CreateUser(ctx, &usermodel.CreateUserRequest{
		Email: email,
		Name:  strings.TrimSpace(name),
	}, passwordHash)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate returns the user id for a matching email/password pair. Every
// mismatch, including an unknown email, is ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if s.isDemoEmail(email) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(s.demo.Password)) == 1 {
			return s.demo.UserID, nil
		}
		return "", ErrInvalidCredentials
	}

	user, err := s.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		_ = checkPassword(dummyPasswordHash(), password)
		return "", ErrInvalidCredentials
	}

	if err := checkPassword(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return user.ID, nil
}

func (s *UserService) isDemoEmail(email string) bool {
	return s.demo.Email != "" && strings.EqualFold(email, s.demo.Email)
}
