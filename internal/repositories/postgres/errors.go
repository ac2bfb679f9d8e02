package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/lib/pq"
)

// wrapDBError wraps a database error with the operation name and, where the
// failure class is meaningful to callers, with a sentinel from the entities
// taxonomy: timeouts and dead connections become ErrUnavailable (retryable),
// unique violations become ErrConflict.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, entities.ErrUnavailable, err)
	}
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w: %v", op, entities.ErrUnavailable, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%s: %w: %s", op, entities.ErrConflict, pqErr.Constraint)
		case "serialization_failure", "deadlock_detected":
			return fmt.Errorf("%s: %w: %v", op, entities.ErrUnavailable, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
