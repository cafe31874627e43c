package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jotterhq/jotter/pkg/cryptox"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("encodes the requested entropy", func(t *testing.T) {
		t.Parallel()

		tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err)
		require.Len(t, raw, cryptox.TokenSize256)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]bool)
		for range 64 {
			tok := cryptox.MustGenerateToken(cryptox.TokenSize128)
			require.False(t, seen[tok])
			seen[tok] = true
		}
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		require.Equal(t,
			cryptox.FingerprintToken("some-refresh-token"),
			cryptox.FingerprintToken("some-refresh-token"))
	})

	t.Run("differs per input and hides it", func(t *testing.T) {
		t.Parallel()

		a := cryptox.FingerprintToken("token-a")
		b := cryptox.FingerprintToken("token-b")
		require.NotEqual(t, a, b)
		require.NotContains(t, a, "token-a")

		// base64url SHA-256 digests are 43 chars unpadded.
		require.Len(t, a, 43)
	})
}
