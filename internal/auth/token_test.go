package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	userID := uuid.New()

	raw, err := SignToken(userID, "pharmacist", secret)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	parsed, err := ParseToken(raw, secret)
	require.NoError(t, err)
	require.Equal(t, userID, parsed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := SignToken(uuid.New(), "vendor", []byte("right"))
	require.NoError(t, err)

	_, err = ParseToken(raw, []byte("wrong"))
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not-a-token", []byte("secret"))
	require.Error(t, err)
}
