package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := WrapError("payload read failed", cause)
	require.Error(t, err)

	assert.Equal(t, "payload read failed: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)

	var se *StreamError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "payload read failed", se.Context)
}

func TestWrapErrorNilCause(t *testing.T) {
	assert.NoError(t, WrapError("anything", nil))
}

func TestWrapErrorNesting(t *testing.T) {
	inner := errors.New("root cause")
	err := WrapError("outer", fmt.Errorf("middle: %w", inner))
	assert.ErrorIs(t, err, inner)
}
