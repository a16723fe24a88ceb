package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, repo user.UserRepository, tenantID, email string) user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), user.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuJ2Xr0bq5yJ1cW1x9Dq0b7bG8xQ1Z5e",
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func TestUsers_SameEmailInTwoTenants(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)

	a := createTenant(t, setup, "Acme")
	b := createTenant(t, setup, "Globex")

	first := createUser(t, repo, a.tenantID, "Rina@Acme.test")
	second := createUser(t, repo, b.tenantID, "rina@acme.test")

	_, err := repo.Create(context.Background(), user.User{
		TenantID:     a.tenantID,
		Email:        "RINA@acme.test",
		PasswordHash: "x",
		Role:         user.RoleEmployee,
		IsActive:     true,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	found, err := repo.ListByEmail(context.Background(), "RINA@ACME.TEST")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)
	assert.Equal(t, second.ID, found[1].ID)
}

func TestUsers_ConcurrentFailedLoginsAccumulate(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	a := createTenant(t, setup, "Acme")
	u := createUser(t, repo, a.tenantID, "rina@acme.test")

	now := time.Now().UTC().Truncate(time.Second)
	const attempts = 8
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordFailedLogin(context.Background(), u.ID, now, 5, 15*time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, attempts, got.FailedLoginAttempts)
	require.NotNil(t, got.LockedUntil)
	assert.True(t, got.IsLocked(now))

	// Once the window has passed the next failure starts over.
	later := now.Add(16 * time.Minute)
	failed, err := repo.RecordFailedLogin(context.Background(), u.ID, later, 5, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, failed.Attempts)
	assert.Nil(t, failed.LockedUntil)

	require.NoError(t, repo.RecordSuccessfulLogin(context.Background(), u.ID, later))
	got, err = repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.FailedLoginAttempts)
	assert.Equal(t, 1, got.LoginCount)
}
