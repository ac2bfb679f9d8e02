package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
)

const defaultPageSize = 10

// PostPage is one page of the newest-first post feed.
type PostPage struct {
	Posts       []*entities.Post `json:"posts"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	TotalPosts  int              `json:"totalPosts"`
	HasNext     bool             `json:"hasNext"`
	HasPrev     bool             `json:"hasPrev"`
}

// PostServiceInterface defines the interface for post operations
type PostServiceInterface interface {
	CreatePost(ctx context.Context, authorID string, image string, caption string) (*entities.Post, error)
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	ListPosts(ctx context.Context, page, limit int) (*PostPage, error)
	DeletePost(ctx context.Context, actorID string, id string) error
	LikePost(ctx context.Context, actorID string, id string) (int, error)
	UnlikePost(ctx context.Context, actorID string, id string) (int, error)
}

// PostService handles the post feed. Images are opaque data-URL strings
// stored unchanged.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost creates a post for the author.
func (s *PostService) CreatePost(ctx context.Context, authorID string, image string, caption string) (*entities.Post, error) {
	if !strings.HasPrefix(image, "data:image/") {
		return nil, fmt.Errorf("create post: %w: image must be a data URL", entities.ErrInvalidArgument)
	}

	exists, err := s.userRepo.Exists(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check author: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("create post: %w: user %s", entities.ErrNotFound, authorID)
	}

	post := &entities.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Image:     image,
		Caption:   strings.TrimSpace(caption),
		Likes:     entities.NewIDSet(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost retrieves a post by id.
func (s *PostService) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("get post: %w: post %s", entities.ErrNotFound, id)
	}
	return post, nil
}

// ListPosts returns one page of the feed, newest first. page starts at 1;
// non-positive page and limit fall back to defaults.
func (s *PostService) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	posts, total, err := s.postRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	return &PostPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1 && total > 0,
	}, nil
}

// DeletePost removes a post and its comments. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, actorID string, id string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return fmt.Errorf("delete post: %w: post %s", entities.ErrNotFound, id)
	}
	if post.AuthorID != actorID {
		return fmt.Errorf("delete post: %w: only the author can delete a post", entities.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// LikePost adds the actor to the post's like set and returns the resulting
// like count. Liking twice is a no-op.
func (s *PostService) LikePost(ctx context.Context, actorID string, id string) (int, error) {
	return s.mutateLikes(ctx, id, func(post *entities.Post) {
		post.Likes.Add(actorID)
	})
}

// UnlikePost removes the actor from the post's like set and returns the
// resulting like count. Unliking an unliked post is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, actorID string, id string) (int, error) {
	return s.mutateLikes(ctx, id, func(post *entities.Post) {
		post.Likes.Remove(actorID)
	})
}

func (s *PostService) mutateLikes(ctx context.Context, id string, mutate func(*entities.Post)) (int, error) {
	count := 0
	err := s.postRepo.Update(ctx, id, func(post *entities.Post) error {
		mutate(post)
		count = post.LikeCount()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update likes: %w", err)
	}
	return count, nil
}
