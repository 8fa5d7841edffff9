package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	internal := errors.New("syntax error at or near")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, ErrConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, ErrInvariant},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, ErrConflict},
		{"postgres foreign key", &pgconn.PgError{Code: "23503"}, ErrInvariant},
		{"postgres check", &pgconn.PgError{Code: "23514"}, ErrInvariant},
		{"postgres connection", &pgconn.PgError{Code: "08006"}, ErrTransient},
		{"postgres admin shutdown", &pgconn.PgError{Code: "57P01"}, ErrTransient},
		{"wrapped postgres unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), ErrConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: accounts.username"), ErrConflict},
		{"sqlite check", errors.New("CHECK constraint failed: chk_device_employees_return_date"), ErrInvariant},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), ErrInvariant},
		{"cancelled", context.Canceled, ErrTransient},
		{"deadline", context.DeadlineExceeded, ErrTransient},
		{"bad conn", driver.ErrBadConn, ErrTransient},
		{"already translated", ErrConflict, ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tc.in), tc.want)
		})
	}

	assert.Nil(t, translate(nil))
	got := translate(internal)
	assert.Equal(t, internal, got)
	for _, kind := range []error{ErrNotFound, ErrConflict, ErrInvariant, ErrTransient} {
		assert.NotErrorIs(t, got, kind)
	}
}
