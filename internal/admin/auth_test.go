package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesDistinctTokens(t *testing.T) {
	auth := NewAuth("s3cret")

	first, err := auth.Login("s3cret")
	require.NoError(t, err)
	second, err := auth.Login("s3cret")
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.True(t, auth.Verify(first))
	assert.True(t, auth.Verify(second))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	auth := NewAuth("s3cret")

	_, err := auth.Login("guess")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestVerifyUnknownToken(t *testing.T) {
	auth := NewAuth("s3cret")

	assert.False(t, auth.Verify(""))
	assert.False(t, auth.Verify("made-up"))
}

func TestLogoutInvalidatesToken(t *testing.T) {
	auth := NewAuth("s3cret")

	token, err := auth.Login("s3cret")
	require.NoError(t, err)

	auth.Logout(token)
	assert.False(t, auth.Verify(token))

	// Unknown token logout is a no-op.
	auth.Logout("never-issued")
}
