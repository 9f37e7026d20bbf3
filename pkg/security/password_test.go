package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scraperite/storefront-backend/pkg/config"
)

func testArgonConfig() config.PasswordConfig {
	// small parameters keep the test fast; production values come from env
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Abcdef12", testArgonConfig())
	require.NoError(t, err)

	ok, err := VerifyPassword("Abcdef12", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("", testArgonConfig())
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("Abcdef12", "not-an-argon2id-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(48)
	require.NoError(t, err)
	assert.Len(t, token, 48)

	other, err := GenerateToken(48)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
