package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, tenant_id, employee_id, email, password_hash, role, is_active,
		failed_login_attempts, locked_until, last_login_at, login_count, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.TenantID,
		&u.EmployeeID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.FailedLoginAttempts,
		&u.LockedUntil,
		&u.LastLoginAt,
		&u.LoginCount,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, err
}

// ListByEmail implements user.UserRepository. Memberships come back oldest
// first.
func (r *userRepositoryImpl) ListByEmail(ctx context.Context, email string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1) ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by email: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO users (tenant_id, employee_id, email, password_hash, role, is_active)
		VALUES ($1, $2, LOWER($3), $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.TenantID,
		newUser.EmployeeID,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Role,
		newUser.IsActive,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return created, nil
}

// RecordFailedLogin implements user.UserRepository. The counter is read and
// written by a single UPDATE so concurrent failures serialize on the row lock.
func (r *userRepositoryImpl) RecordFailedLogin(ctx context.Context, id string, now time.Time, maxAttempts int, window time.Duration) (user.FailedLogin, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE users
		SET failed_login_attempts = CASE
				WHEN locked_until IS NOT NULL AND locked_until <= $2 THEN 1
				ELSE failed_login_attempts + 1
			END,
			locked_until = CASE
				WHEN (CASE
						WHEN locked_until IS NOT NULL AND locked_until <= $2 THEN 1
						ELSE failed_login_attempts + 1
					END) >= $3 THEN $4::timestamptz
				ELSE NULL
			END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, locked_until
	`

	var result user.FailedLogin
	err := q.QueryRow(ctx, query, id, now, maxAttempts, now.Add(window)).Scan(&result.Attempts, &result.LockedUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.FailedLogin{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.FailedLogin{}, err
	}
	return result, nil
}

// RecordSuccessfulLogin implements user.UserRepository.
func (r *userRepositoryImpl) RecordSuccessfulLogin(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login_at = $1,
			login_count = login_count + 1, updated_at = NOW()
		WHERE id = $2
	`
	return execExpectingRow(ctx, q, user.ErrUserNotFound, query, at, id)
}

// UpdatePasswordHash implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return execExpectingRow(ctx, q, user.ErrUserNotFound, query, passwordHash, id)
}

func execExpectingRow(ctx context.Context, q database.Querier, notFound error, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
