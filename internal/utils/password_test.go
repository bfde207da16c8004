package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordSaltsEachCall(t *testing.T) {
	h1, err := HashPassword("password1", 4)
	require.NoError(t, err)
	h2, err := HashPassword("password1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "bcrypt must salt per call")
}

func TestVerifyPassword(t *testing.T) {
	h, err := HashPassword("correct horse battery staple", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(h, "correct horse battery staple"))
	assert.False(t, VerifyPassword(h, "correct horse battery"))
	assert.False(t, VerifyPassword(h, ""))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "anything"))
}
