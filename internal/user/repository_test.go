// CaterEase API | 2026
// repository_test.go

package user

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/caterease/api/internal/core"
)

func TestDuplicateKeyField(t *testing.T) {
	uniqueErr := func(constraint string) error {
		return fmt.Errorf("insert: %w", &pgconn.PgError{
			Code:           "23505",
			ConstraintName: constraint,
		})
	}

	t.Run("email constraint", func(t *testing.T) {
		err := duplicateKeyField(uniqueErr("users_email_key"))
		assert.ErrorIs(t, err, core.ErrDuplicateEmail)
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})

	t.Run("username constraint", func(t *testing.T) {
		err := duplicateKeyField(uniqueErr("users_username_key"))
		assert.ErrorIs(t, err, core.ErrDuplicateUsername)
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})

	t.Run("unrecognized constraint stays generic", func(t *testing.T) {
		err := duplicateKeyField(uniqueErr("users_some_other_key"))
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
		assert.NotErrorIs(t, err, core.ErrDuplicateEmail)
		assert.NotErrorIs(t, err, core.ErrDuplicateUsername)
	})

	t.Run("non-pg error stays generic", func(t *testing.T) {
		err := duplicateKeyField(errors.New("broken pipe"))
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})
}
