package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/ContractorHub/internal/pkg/apperror"
)

// classify maps gorm and driver errors onto the apperror taxonomy. The
// original error stays reachable through errors.Is/As.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) ||
		errors.Is(err, apperror.ErrNotFound) ||
		errors.Is(err, apperror.ErrConstraintViolation) ||
		errors.Is(err, apperror.ErrConnection) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", apperror.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated), isConstraintMessage(err):
		return fmt.Errorf("%w: %w", apperror.ErrConstraintViolation, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", apperror.ErrConnection, err)
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Drivers that do not implement gorm's error translator still report
// constraint failures in their message.
func isConstraintMessage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "foreign key constraint fails")
}
