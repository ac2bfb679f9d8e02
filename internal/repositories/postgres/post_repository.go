package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
	"github.com/lib/pq"
)

// PostgresPostRepository implements PostRepository using PostgreSQL.
type PostgresPostRepository struct {
	db *sql.DB
}

// NewPostgresPostRepository creates a new PostgreSQL post repository.
func NewPostgresPostRepository(db *sql.DB) repositories.PostRepository {
	return &PostgresPostRepository{db: db}
}

const postColumns = `
	p.id, p.author_id, p.image, p.caption, p.likes, p.created_at,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
`

// Create persists a new post.
func (r *PostgresPostRepository) Create(ctx context.Context, post *entities.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}

	query := `
		INSERT INTO posts (id, author_id, image, caption, likes)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Image, post.Caption, pq.Array(post.Likes.IDs()),
	)
	if err != nil {
		return wrapDBError("create post", err)
	}
	return nil
}

// GetByID retrieves a post with its like set and comment count.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*entities.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts p WHERE p.id = $1", postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDBError("get post", err)
	}
	return post, nil
}

// List returns posts newest-first with offset pagination, plus the total count.
func (r *PostgresPostRepository) List(ctx context.Context, limit, offset int) ([]*entities.Post, int, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts p
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`, postColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, wrapDBError("list posts", err)
	}
	defer rows.Close()

	var posts []*entities.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, wrapDBError("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapDBError("iterate posts", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, wrapDBError("count posts", err)
	}

	return posts, total, nil
}

// Update applies mutate to the post under a row lock.
func (r *PostgresPostRepository) Update(ctx context.Context, id string, mutate repositories.PostMutator) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError("begin post transaction", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("SELECT %s FROM posts p WHERE p.id = $1 FOR UPDATE OF p", postColumns)
	post, err := scanPost(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return fmt.Errorf("update post: %w: post %s", entities.ErrNotFound, id)
	}
	if err != nil {
		return wrapDBError("lock post", err)
	}

	if err := mutate(post); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE posts SET caption = $2, likes = $3 WHERE id = $1",
		post.ID, post.Caption, pq.Array(post.Likes.IDs()),
	)
	if err != nil {
		return wrapDBError("persist post", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError("commit post transaction", err)
	}
	return nil
}

// Delete removes a post. Comments go with it via ON DELETE CASCADE.
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return wrapDBError("delete post", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapDBError("delete post", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete post: %w: post %s", entities.ErrNotFound, id)
	}
	return nil
}

func scanPost(row rowScanner) (*entities.Post, error) {
	var post entities.Post
	var likes []string

	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Image, &post.Caption,
		pq.Array(&likes), &post.CreatedAt, &post.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	post.Likes = entities.NewIDSet(likes...)
	return &post, nil
}
