package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("unique constraint violated")
	ErrInvariant = errors.New("integrity constraint violated")
	ErrTransient = errors.New("database temporarily unavailable")
)

// translate maps driver and gorm errors onto the gateway taxonomy. Errors that
// match no kind are returned unchanged and treated as internal by callers.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvariant) || errors.Is(err, ErrTransient) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case strings.HasPrefix(pgErr.Code, "23"):
			return fmt.Errorf("%w: %w", ErrInvariant, err)
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01",
			pgErr.Code == "40001", pgErr.Code == "40P01":
			return fmt.Errorf("%w: %w", ErrTransient, err)
		}
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	// sqlite reports constraint failures by message only for check and not-null constraints.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return err
}
