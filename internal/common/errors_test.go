package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("Failed to open database", ErrDatabaseCorrupted)
	assert.Equal(t, "Failed to open database: database corrupted", err.Error())
	assert.ErrorIs(t, err, ErrDatabaseCorrupted)

	wrapped := fmt.Errorf("startup: %w", err)
	var userErr *UserError
	assert.True(t, errors.As(wrapped, &userErr))
	assert.Equal(t, "Failed to open database", userErr.UserMessage)
}

func TestUserErrorWithoutCause(t *testing.T) {
	err := NewUserError("Nothing to do", nil)
	assert.Equal(t, "Nothing to do", err.Error())
	assert.NoError(t, errors.Unwrap(err))
}
