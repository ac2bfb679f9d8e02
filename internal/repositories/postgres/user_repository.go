package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
	"github.com/lib/pq"
)

// graphChannel is the LISTEN/NOTIFY channel used to announce relationship
// graph changes to other instances (see infrastructure/cache).
const graphChannel = "graph_changed"

// PostgresUserRepository implements UserRepository using PostgreSQL.
// Relationship sets are stored as text[] columns on the user row and
// loaded into entities.IDSet values.
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository.
func NewPostgresUserRepository(db *sql.DB) repositories.UserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `
	id, username, email, password_hash, bio, COALESCE(profile_picture, ''),
	followers, following, friends, incoming_requests, outgoing_requests,
	created_at, updated_at
`

// Create persists a new user record with an empty relationship graph.
func (r *PostgresUserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}

	query := `
		INSERT INTO users (
			id, username, email, password_hash, bio, profile_picture,
			followers, following, friends, incoming_requests, outgoing_requests
		)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Bio, user.ProfilePicture,
		pq.Array(user.Graph.Followers.IDs()),
		pq.Array(user.Graph.Following.IDs()),
		pq.Array(user.Graph.Friends.IDs()),
		pq.Array(user.Graph.IncomingRequests.IDs()),
		pq.Array(user.Graph.OutgoingRequests.IDs()),
	)
	if err != nil {
		return wrapDBError("create user", err)
	}
	return nil
}

// GetByID retrieves a user with its full relationship graph.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by lowercase email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByUsername retrieves a user by lowercase username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *PostgresUserRepository) getBy(ctx context.Context, column, value string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)

	row := r.db.QueryRowContext(ctx, query, value)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("get user by "+column, err)
	}
	return user, nil
}

// Exists reports whether a user record exists.
func (r *PostgresUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBError("check user existence", err)
	}
	return exists, nil
}

// UpdateProfile persists the mutable profile fields.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET username = $2, bio = $3, profile_picture = NULLIF($4, ''), updated_at = now()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Bio, user.ProfilePicture)
	if err != nil {
		return wrapDBError("update profile", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("update profile", err)
	}
	if affected == 0 {
		return fmt.Errorf("update profile: %w: user %s", entities.ErrNotFound, user.ID)
	}
	return nil
}

// UpdatePair atomically applies mutate to two user graphs.
//
// Both rows are locked with SELECT ... FOR UPDATE in ascending-id order, so
// two concurrent operations on the same unordered pair always lock in the
// same order and serialize instead of deadlocking or interleaving. The
// relationship invariants therefore hold after every commit regardless of
// concurrent callers.
func (r *PostgresUserRepository) UpdatePair(ctx context.Context, firstID, secondID string, mutate repositories.UserPairMutator) error {
	if firstID == secondID {
		return fmt.Errorf("update pair: %w: identical user ids", entities.ErrInvalidArgument)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError("begin pair transaction", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, userColumns)

	rows, err := tx.QueryContext(ctx, query, pq.Array([]string{firstID, secondID}))
	if err != nil {
		return wrapDBError("lock user pair", err)
	}

	loaded := make(map[string]*entities.User, 2)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return wrapDBError("scan user pair", err)
		}
		loaded[user.ID] = user
	}
	if err := rows.Close(); err != nil {
		return wrapDBError("read user pair", err)
	}

	first, ok := loaded[firstID]
	if !ok {
		return fmt.Errorf("update pair: %w: user %s", entities.ErrNotFound, firstID)
	}
	second, ok := loaded[secondID]
	if !ok {
		return fmt.Errorf("update pair: %w: user %s", entities.ErrNotFound, secondID)
	}

	if err := mutate(first, second); err != nil {
		return err
	}

	for _, user := range []*entities.User{first, second} {
		if err := persistGraph(ctx, tx, user); err != nil {
			return err
		}
		// Announce the change so cached profiles are dropped everywhere.
		if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", graphChannel, user.ID); err != nil {
			return wrapDBError("notify graph change", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError("commit pair transaction", err)
	}
	return nil
}

func persistGraph(ctx context.Context, tx *sql.Tx, user *entities.User) error {
	query := `
		UPDATE users
		SET followers = $2, following = $3, friends = $4,
		    incoming_requests = $5, outgoing_requests = $6, updated_at = now()
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query,
		user.ID,
		pq.Array(user.Graph.Followers.IDs()),
		pq.Array(user.Graph.Following.IDs()),
		pq.Array(user.Graph.Friends.IDs()),
		pq.Array(user.Graph.IncomingRequests.IDs()),
		pq.Array(user.Graph.OutgoingRequests.IDs()),
	)
	if err != nil {
		return wrapDBError("persist graph", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	var followers, following, friends, incoming, outgoing []string

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Bio, &user.ProfilePicture,
		pq.Array(&followers), pq.Array(&following), pq.Array(&friends),
		pq.Array(&incoming), pq.Array(&outgoing),
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Graph = entities.UserGraph{
		Followers:        entities.NewIDSet(followers...),
		Following:        entities.NewIDSet(following...),
		Friends:          entities.NewIDSet(friends...),
		IncomingRequests: entities.NewIDSet(incoming...),
		OutgoingRequests: entities.NewIDSet(outgoing...),
	}
	return &user, nil
}
