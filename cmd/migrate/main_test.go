package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepCount(t *testing.T) {
	n, err := stepCount("up", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = stepCount("up", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = stepCount("down", 1)
	require.NoError(t, err)
	assert.Equal(t, -1, n)
}

func TestStepCount_Rejects(t *testing.T) {
	_, err := stepCount("down", 0)
	assert.ErrorContains(t, err, "explicit -steps")

	_, err = stepCount("sideways", 1)
	assert.ErrorContains(t, err, "invalid direction")

	_, err = stepCount("up", -3)
	assert.ErrorContains(t, err, "steps must be >= 0")
}
