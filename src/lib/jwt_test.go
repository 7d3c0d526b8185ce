package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyJWT(t *testing.T) {
	token, err := GenerateJWT("64f1b2a3c4d5e6f708192a3b", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := VerifyJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "64f1b2a3c4d5e6f708192a3b", userID)
}

func TestVerifyJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("64f1b2a3c4d5e6f708192a3b", "test-secret")
	require.NoError(t, err)

	_, err = VerifyJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestVerifyJWTGarbage(t *testing.T) {
	_, err := VerifyJWT("not-a-token", "test-secret")
	assert.Error(t, err)
}
