package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
	"github.com/lib/pq"
)

// PostgresGroupRepository implements GroupRepository using PostgreSQL.
type PostgresGroupRepository struct {
	db *sql.DB
}

// NewPostgresGroupRepository creates a new PostgreSQL group repository.
func NewPostgresGroupRepository(db *sql.DB) repositories.GroupRepository {
	return &PostgresGroupRepository{db: db}
}

const groupColumns = "id, name, description, owner_id, members, created_at"

// Create persists a new group.
func (r *PostgresGroupRepository) Create(ctx context.Context, group *entities.Group) error {
	if err := group.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}

	query := `
		INSERT INTO groups (id, name, description, owner_id, members)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		group.ID, group.Name, group.Description, group.OwnerID, pq.Array(group.Members.IDs()),
	)
	if err != nil {
		return wrapDBError("create group", err)
	}
	return nil
}

// GetByID retrieves a group with its member set.
func (r *PostgresGroupRepository) GetByID(ctx context.Context, id string) (*entities.Group, error) {
	query := fmt.Sprintf("SELECT %s FROM groups WHERE id = $1", groupColumns)

	group, err := scanGroup(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("get group", err)
	}
	return group, nil
}

// List returns all groups, newest first.
func (r *PostgresGroupRepository) List(ctx context.Context) ([]*entities.Group, error) {
	query := fmt.Sprintf("SELECT %s FROM groups ORDER BY created_at DESC", groupColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("list groups", err)
	}
	defer rows.Close()

	var groups []*entities.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, wrapDBError("scan group", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterate groups", err)
	}

	return groups, nil
}

// Update applies mutate to the group under a row lock, so concurrent
// join/leave calls on the same group serialize.
func (r *PostgresGroupRepository) Update(ctx context.Context, id string, mutate repositories.GroupMutator) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError("begin group transaction", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("SELECT %s FROM groups WHERE id = $1 FOR UPDATE", groupColumns)
	group, err := scanGroup(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return fmt.Errorf("update group: %w: group %s", entities.ErrNotFound, id)
	}
	if err != nil {
		return wrapDBError("lock group", err)
	}

	if err := mutate(group); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE groups SET members = $2 WHERE id = $1",
		group.ID, pq.Array(group.Members.IDs()),
	)
	if err != nil {
		return wrapDBError("persist group", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError("commit group transaction", err)
	}
	return nil
}

func scanGroup(row rowScanner) (*entities.Group, error) {
	var group entities.Group
	var members []string

	err := row.Scan(
		&group.ID, &group.Name, &group.Description, &group.OwnerID,
		pq.Array(&members), &group.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	group.Members = entities.NewIDSet(members...)
	return &group, nil
}
