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

// CommentServiceInterface defines the interface for comment operations
type CommentServiceInterface interface {
	CreateComment(ctx context.Context, authorID string, postID string, text string) (*entities.Comment, error)
	ListComments(ctx context.Context, postID string, limit int) ([]*entities.Comment, error)
	DeleteComment(ctx context.Context, actorID string, id string) error
	LikeComment(ctx context.Context, actorID string, id string) (int, error)
}

// CommentService handles comments on posts
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment adds a comment to a post.
func (s *CommentService) CreateComment(ctx context.Context, authorID string, postID string, text string) (*entities.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("create comment: %w: comment text is required", entities.ErrInvalidArgument)
	}
	if postID == "" {
		return nil, fmt.Errorf("create comment: %w: post id is required", entities.ErrInvalidArgument)
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("create comment: %w: post %s", entities.ErrNotFound, postID)
	}

	comment := &entities.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		Likes:     entities.NewIDSet(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the newest comments of a post.
func (s *CommentService) ListComments(ctx context.Context, postID string, limit int) ([]*entities.Comment, error) {
	if postID == "" {
		return nil, fmt.Errorf("list comments: %w: post id is required", entities.ErrInvalidArgument)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Only the author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, actorID string, id string) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return fmt.Errorf("delete comment: %w: comment %s", entities.ErrNotFound, id)
	}
	if comment.AuthorID != actorID {
		return fmt.Errorf("delete comment: %w: only the author can delete a comment", entities.ErrForbidden)
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// LikeComment adds the actor to the comment's like set and returns the
// resulting like count. Liking twice is a no-op.
func (s *CommentService) LikeComment(ctx context.Context, actorID string, id string) (int, error) {
	count := 0
	err := s.commentRepo.Update(ctx, id, func(comment *entities.Comment) error {
		comment.Likes.Add(actorID)
		count = comment.LikeCount()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to like comment: %w", err)
	}
	return count, nil
}
