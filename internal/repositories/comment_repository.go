package repositories

import (
	"context"

	"github.com/hisakawa/tsunagari/internal/entities"
)

// CommentMutator mutates a comment inside a row-locked transaction.
type CommentMutator func(comment *entities.Comment) error

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *entities.Comment) error

	// GetByID retrieves a comment. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*entities.Comment, error)

	// ListByPost returns the newest comments of a post, newest first.
	// limit <= 0 means no limit.
	ListByPost(ctx context.Context, postID string, limit int) ([]*entities.Comment, error)

	// Update applies mutate to the comment under a row lock. Returns
	// entities.ErrNotFound (wrapped) if the comment is absent.
	Update(ctx context.Context, id string, mutate CommentMutator) error

	// Delete removes a comment.
	Delete(ctx context.Context, id string) error
}
