// Package password verifies stored credentials across hashing schemes.
// bcrypt is current; plain and base64 values are accepted only so existing
// accounts can be migrated on their next successful login.
package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Result is the outcome of Verify.
type Result int

const (
	NoMatch Result = iota
	MatchCurrent
	MatchLegacy
)

func (r Result) String() string {
	switch r {
	case MatchCurrent:
		return "match-current"
	case MatchLegacy:
		return "match-legacy"
	default:
		return "no-match"
	}
}

// Matched reports whether the plaintext was accepted by any scheme.
func (r Result) Matched() bool {
	return r == MatchCurrent || r == MatchLegacy
}

var ErrEmptyPassword = errors.New("password must not be empty")

// Hash produces a current-scheme hash.
func Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsCurrent reports whether stored is a bcrypt hash.
func IsCurrent(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// Verify compares plaintext against stored. A bcrypt value is only ever
// checked with bcrypt; legacy comparisons run in constant time.
func Verify(plaintext, stored string) Result {
	if plaintext == "" || stored == "" {
		return NoMatch
	}

	if looksLikeBcrypt(stored) {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil {
			return MatchCurrent
		}
		return NoMatch
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(plaintext))
	if constantTimeEqual(encoded, stored) {
		return MatchLegacy
	}
	if constantTimeEqual(plaintext, stored) {
		return MatchLegacy
	}
	return NoMatch
}

func looksLikeBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
