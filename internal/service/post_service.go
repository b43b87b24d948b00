package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/blogd/internal/cache"
	"github.com/Varun5711/blogd/internal/idgen"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/models"
	"github.com/Varun5711/blogd/internal/storage"
)

const RecentPostsLimit = 20

var ErrPostNotFound = errors.New("post not found")

type PostService struct {
	store storage.PostStorage
	cache *cache.Cache
	idGen *idgen.Generator
	log   *logger.Logger
}

// NewPostService accepts a nil cache, in which case every read hits storage.
func NewPostService(store storage.PostStorage, postCache *cache.Cache, idGen *idgen.Generator, log *logger.Logger) *PostService {
	return &PostService{
		store: store,
		cache: postCache,
		idGen: idGen,
		log:   log,
	}
}

func postKey(id string) string {
	return "post:" + id
}

func (s *PostService) Create(ctx context.Context, req *models.CreatePostRequest) (*models.Post, error) {
	id, err := s.idGen.NextCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate post id: %w", err)
	}

	post := &models.Post{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.log.Info("created post %s by %q", post.ID, post.Author)
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	if s.cache != nil {
		var cached models.Post
		found, err := s.cache.GetJSON(ctx, postKey(id), &cached)
		if err != nil {
			s.log.Warn("post cache read failed for %s: %v", id, err)
		}
		if found {
			return &cached, nil
		}
	}

	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, postKey(id), post); err != nil {
			s.log.Warn("post cache write failed for %s: %v", id, err)
		}
	}

	return post, nil
}

func (s *PostService) ListRecent(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.store.ListRecentPosts(ctx, RecentPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Update(ctx context.Context, id string, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.store.UpdatePost(ctx, id, req)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.invalidate(ctx, id)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	err := s.store.DeletePost(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *PostService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, postKey(id)); err != nil {
		s.log.Warn("post cache invalidation failed for %s: %v", id, err)
	}
}
