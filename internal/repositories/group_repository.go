package repositories

import (
	"context"

	"github.com/hisakawa/tsunagari/internal/entities"
)

// GroupMutator mutates a group inside a row-locked transaction.
type GroupMutator func(group *entities.Group) error

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	// Create persists a new group.
	Create(ctx context.Context, group *entities.Group) error

	// GetByID retrieves a group with its member set. Returns (nil, nil)
	// when absent.
	GetByID(ctx context.Context, id string) (*entities.Group, error)

	// List returns all groups, newest first.
	List(ctx context.Context) ([]*entities.Group, error)

	// Update applies mutate to the group under a row lock, so concurrent
	// join/leave calls on the same group serialize. Returns
	// entities.ErrNotFound (wrapped) if the group is absent.
	Update(ctx context.Context, id string, mutate GroupMutator) error
}
