package repositories

import (
	"context"

	"github.com/hisakawa/tsunagari/internal/entities"
)

// UserPairMutator mutates the relationship graphs of two users inside a
// single transaction. a and b are the users identified by the first and
// second id passed to UpdatePair, in that order. Returning an error aborts
// the transaction unchanged.
type UserPairMutator func(a, b *entities.User) error

// UserRepository defines persistence operations for user records.
//
// Lookup methods return (nil, nil) when no record matches; callers decide
// whether absence is an error.
type UserRepository interface {
	// Create persists a new user. Returns entities.ErrConflict (wrapped)
	// when the username or email is already taken.
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user with its full relationship graph.
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by lowercase email.
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// GetByUsername retrieves a user by lowercase username.
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// Exists reports whether a user record exists.
	Exists(ctx context.Context, id string) (bool, error)

	// UpdateProfile persists username, bio and profile picture.
	UpdateProfile(ctx context.Context, user *entities.User) error

	// UpdatePair atomically applies mutate to the graphs of two users.
	// Both rows are locked for the duration of the transaction, in
	// ascending-id order regardless of argument order, so concurrent
	// relationship operations on the same pair serialize instead of
	// interleaving. Returns entities.ErrNotFound (wrapped) if either user
	// is absent. After a successful commit both persisted graphs satisfy
	// the mirroring invariants the mutator maintained.
	UpdatePair(ctx context.Context, firstID, secondID string, mutate UserPairMutator) error
}
