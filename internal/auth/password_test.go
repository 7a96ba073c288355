package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/catalog-service/internal/auth"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	ok, err := auth.VerifyPassword(hash, "s3cret-password")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-password", bcrypt.MinCost)
	require.NoError(t, err)

	// Any mutation of the password must fail verification without erroring.
	ok, err := auth.VerifyPassword(hash, "s3cret-passworD")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.VerifyPassword(hash, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := auth.HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, auth.ErrEmptyPassword)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := auth.VerifyPassword("not-a-bcrypt-hash", "whatever")
	assert.Error(t, err)
	assert.False(t, ok)
}
