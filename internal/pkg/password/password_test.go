package password

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func bcryptHash(t *testing.T, plaintext string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestVerify_Current(t *testing.T) {
	stored := bcryptHash(t, "s3cret-pass")
	assert.Equal(t, MatchCurrent, Verify("s3cret-pass", stored))
	assert.Equal(t, NoMatch, Verify("s3cret-pasS", stored))
	assert.Equal(t, NoMatch, Verify("s3cret-pas", stored))
}

func TestVerify_LegacyBase64(t *testing.T) {
	stored := base64.StdEncoding.EncodeToString([]byte("hunter22"))
	assert.Equal(t, MatchLegacy, Verify("hunter22", stored))
	assert.Equal(t, NoMatch, Verify("hunter23", stored))
}

func TestVerify_LegacyPlain(t *testing.T) {
	assert.Equal(t, MatchLegacy, Verify("plain-pass", "plain-pass"))
	assert.Equal(t, NoMatch, Verify("plain-pasz", "plain-pass"))
	assert.Equal(t, NoMatch, Verify("plain-pass ", "plain-pass"))
}

func TestVerify_BcryptNeverComparedAsLegacy(t *testing.T) {
	stored := bcryptHash(t, "abc12345")
	// Submitting the hash itself must not match via plain equality.
	assert.Equal(t, NoMatch, Verify(stored, stored))
}

func TestVerify_Empty(t *testing.T) {
	assert.Equal(t, NoMatch, Verify("", ""))
	assert.Equal(t, NoMatch, Verify("x", ""))
	assert.Equal(t, NoMatch, Verify("", "x"))
}

func TestVerify_SingleCharacterDifferences(t *testing.T) {
	const secret = "Correct-Horse-9"
	stores := map[string]string{
		"bcrypt": bcryptHash(t, secret),
		"base64": base64.StdEncoding.EncodeToString([]byte(secret)),
		"plain":  secret,
	}
	for scheme, stored := range stores {
		require.True(t, Verify(secret, stored).Matched(), scheme)
		for i := range secret {
			mutated := []byte(secret)
			mutated[i]++
			assert.Equal(t, NoMatch, Verify(string(mutated), stored), "%s: position %d", scheme, i)
		}
	}
}

func TestHash(t *testing.T) {
	h, err := Hash("new-password")
	require.NoError(t, err)
	assert.True(t, IsCurrent(h))
	assert.Equal(t, MatchCurrent, Verify("new-password", h))

	_, err = Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.False(t, IsCurrent("plain"))
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "match-current", MatchCurrent.String())
	assert.Equal(t, "match-legacy", MatchLegacy.String())
	assert.Equal(t, "no-match", NoMatch.String())
	assert.False(t, NoMatch.Matched())
}
