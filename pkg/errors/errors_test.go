package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("week 12: %w", ErrNotFound)))
	assert.False(t, IsNotFound(ErrValidation))
	assert.False(t, IsNotFound(nil))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrValidation))
	assert.True(t, IsValidation(fmt.Errorf("missing week number: %w", ErrValidation)))
	assert.False(t, IsValidation(ErrStorage))
}

func TestIsStorage(t *testing.T) {
	assert.True(t, IsStorage(ErrStorage))
	assert.True(t, IsStorage(fmt.Errorf("insert session: %w", ErrStorage)))
	assert.False(t, IsStorage(ErrNotFound))
	assert.False(t, IsStorage(fmt.Errorf("plain error")))
}
