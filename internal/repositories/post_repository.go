package repositories

import (
	"context"

	"github.com/hisakawa/tsunagari/internal/entities"
)

// PostMutator mutates a post inside a row-locked transaction.
type PostMutator func(post *entities.Post) error

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create persists a new post.
	Create(ctx context.Context, post *entities.Post) error

	// GetByID retrieves a post with its like set and comment count.
	// Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*entities.Post, error)

	// List returns posts newest-first with offset pagination, plus the
	// total number of posts.
	List(ctx context.Context, limit, offset int) ([]*entities.Post, int, error)

	// Update applies mutate to the post under a row lock. Returns
	// entities.ErrNotFound (wrapped) if the post is absent.
	Update(ctx context.Context, id string, mutate PostMutator) error

	// Delete removes a post. Associated comments are removed with it.
	Delete(ctx context.Context, id string) error
}
