package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		t.Parallel()
		err := MapError(sql.ErrNoRows)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrapped no rows becomes not found", func(t *testing.T) {
		t.Parallel()
		err := MapError(fmt.Errorf("query user: %w", sql.ErrNoRows))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique violation becomes duplicate", func(t *testing.T) {
		t.Parallel()
		err := MapError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})
		require.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("check violation becomes invalid entity", func(t *testing.T) {
		t.Parallel()
		err := MapError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"})
		require.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("foreign key violation becomes invalid entity", func(t *testing.T) {
		t.Parallel()
		err := MapError(&pgconn.PgError{Code: foreignKeyViolationCode})
		require.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("unrecognized error passes through", func(t *testing.T) {
		t.Parallel()
		original := errors.New("connection reset")
		assert.Equal(t, original, MapError(original))
	})
}
