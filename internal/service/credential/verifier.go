package credential

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/password"
)

// Verifier checks submitted passwords and migrates legacy hashes to bcrypt.
type Verifier struct {
	users user.UserRepository
}

func NewVerifier(users user.UserRepository) *Verifier {
	return &Verifier{users: users}
}

func (v *Verifier) Verify(plaintext, storedHash string) password.Result {
	return password.Verify(plaintext, storedHash)
}

// UpgradeIfNeeded rehashes and stores the password when result is a legacy
// match. Any other result is a no-op.
func (v *Verifier) UpgradeIfNeeded(ctx context.Context, userID, plaintext string, result password.Result) error {
	if result != password.MatchLegacy {
		return nil
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := v.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to store upgraded password hash: %w", err)
	}

	slog.Info("Upgraded legacy password hash", "user_id", userID)
	return nil
}
