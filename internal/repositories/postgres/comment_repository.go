package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
	"github.com/lib/pq"
)

// PostgresCommentRepository implements CommentRepository using PostgreSQL.
type PostgresCommentRepository struct {
	db *sql.DB
}

// NewPostgresCommentRepository creates a new PostgreSQL comment repository.
func NewPostgresCommentRepository(db *sql.DB) repositories.CommentRepository {
	return &PostgresCommentRepository{db: db}
}

const commentColumns = "id, post_id, author_id, body, likes, created_at"

// Create persists a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}

	query := `
		INSERT INTO comments (id, post_id, author_id, body, likes)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Text, pq.Array(comment.Likes.IDs()),
	)
	if err != nil {
		return wrapDBError("create comment", err)
	}
	return nil
}

// GetByID retrieves a comment.
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	query := fmt.Sprintf("SELECT %s FROM comments WHERE id = $1", commentColumns)

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("get comment", err)
	}
	return comment, nil
}

// ListByPost returns the comments of a post, newest first.
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID string, limit int) ([]*entities.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC
	`, commentColumns)

	args := []interface{}{postID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list comments", err)
	}
	defer rows.Close()

	var comments []*entities.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, wrapDBError("scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("iterate comments", err)
	}

	return comments, nil
}

// Update applies mutate to the comment under a row lock.
func (r *PostgresCommentRepository) Update(ctx context.Context, id string, mutate repositories.CommentMutator) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError("begin comment transaction", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("SELECT %s FROM comments WHERE id = $1 FOR UPDATE", commentColumns)
	comment, err := scanComment(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return fmt.Errorf("update comment: %w: comment %s", entities.ErrNotFound, id)
	}
	if err != nil {
		return wrapDBError("lock comment", err)
	}

	if err := mutate(comment); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE comments SET likes = $2 WHERE id = $1",
		comment.ID, pq.Array(comment.Likes.IDs()),
	)
	if err != nil {
		return wrapDBError("persist comment", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError("commit comment transaction", err)
	}
	return nil
}

// Delete removes a comment.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return wrapDBError("delete comment", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("delete comment", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete comment: %w: comment %s", entities.ErrNotFound, id)
	}
	return nil
}

func scanComment(row rowScanner) (*entities.Comment, error) {
	var comment entities.Comment
	var likes []string

	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text,
		pq.Array(&likes), &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.Likes = entities.NewIDSet(likes...)
	return &comment, nil
}
