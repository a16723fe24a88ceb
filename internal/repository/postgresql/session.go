package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates a new instance of session.Repository.
func NewSessionRepository(db *database.DB) session.Repository {
	return &sessionRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (r *sessionRepositoryImpl) Create(ctx context.Context, record session.Record, refreshToken string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO sessions (id, user_id, tenant_id, token_hash, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.TenantID,
		hashToken(refreshToken),
		record.UserAgent,
		record.IPAddress,
		record.ExpiresAt.UTC(),
	)
	return err
}

func (r *sessionRepositoryImpl) GetByToken(ctx context.Context, refreshToken string) (session.Record, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, user_id, tenant_id, COALESCE(user_agent, ''), COALESCE(ip_address, ''),
			   expires_at, revoked_at, last_restored_at, created_at
		FROM sessions
		WHERE token_hash = $1
	`
	var rec session.Record
	err := q.QueryRow(ctx, query, hashToken(refreshToken)).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.TenantID,
		&rec.UserAgent,
		&rec.IPAddress,
		&rec.ExpiresAt,
		&rec.RevokedAt,
		&rec.LastRestoredAt,
		&rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Record{}, session.ErrSessionNotFound
	}
	return rec, err
}

func (r *sessionRepositoryImpl) Revoke(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, id)
	return err
}

func (r *sessionRepositoryImpl) MarkRestored(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE sessions SET last_restored_at = $1 WHERE id = $2`, at.UTC(), id)
	return err
}

// PurgeInactive deletes sessions that expired or were revoked before the cutoff.
func (r *sessionRepositoryImpl) PurgeInactive(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM sessions
		WHERE expires_at < $1 OR (revoked_at IS NOT NULL AND revoked_at < $1)
	`
	tag, err := q.Exec(ctx, query, before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
