package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfSurvivesWrapping(t *testing.T) {
	base := NewCapacityError("sold out")
	wrapped := fmt.Errorf("purchase failed: %w", base)

	assert.Equal(t, KindCapacity, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindCapacity))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestKindOfDefaultsToTransient(t *testing.T) {
	assert.Equal(t, KindTransient, KindOf(errors.New("mongo timeout")))
}

func TestTransientErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransientError("failed to reach store", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to reach store")
	assert.Contains(t, err.Error(), "connection reset")
}
