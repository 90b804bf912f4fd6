package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eyepatch5263/Scribble-server/domain"
)

// wrapDBError lets context errors through untouched and tags everything
// else as an unexpected database failure.
func wrapDBError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
}
