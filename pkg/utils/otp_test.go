package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTPCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := NewOTPCode()
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNewRandomPassword(t *testing.T) {
	a := NewRandomPassword()
	b := NewRandomPassword()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
}
