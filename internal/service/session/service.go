package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/tenant"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/user"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/pkg/password"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/service/credential"
	"github.com/google/uuid"
)

// LockoutPolicy locks an account for Window once MaxAttempts consecutive
// password mismatches have been recorded.
type LockoutPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

var DefaultLockoutPolicy = LockoutPolicy{MaxAttempts: 5, Window: 15 * time.Minute}

type SessionServiceImpl struct {
	users      user.UserRepository
	tenants    tenant.TenantRepository
	sessions   session.Repository
	verifier   *credential.Verifier
	tokens     jwt.Service
	transactor database.Transactor
	lockout    LockoutPolicy
	now        func() time.Time
}

var _ session.Service = (*SessionServiceImpl)(nil)

func NewSessionService(
	users user.UserRepository,
	tenants tenant.TenantRepository,
	sessions session.Repository,
	verifier *credential.Verifier,
	tokens jwt.Service,
	transactor database.Transactor,
	lockout LockoutPolicy,
) *SessionServiceImpl {
	if lockout.MaxAttempts < 1 {
		lockout = DefaultLockoutPolicy
	}
	return &SessionServiceImpl{
		users:      users,
		tenants:    tenants,
		sessions:   sessions,
		verifier:   verifier,
		tokens:     tokens,
		transactor: transactor,
		lockout:    lockout,
		now:        time.Now,
	}
}

// Create implements session.Service.
func (s *SessionServiceImpl) Create(ctx context.Context, req session.LoginRequest, tracking session.TrackingInfo) (session.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return session.AuthResponse{}, err
	}

	candidates, err := s.users.ListByEmail(ctx, req.Email)
	if err != nil {
		return session.AuthResponse{}, fmt.Errorf("failed to list users by email: %w", err)
	}

	now := s.now()
	matched, err := s.authenticate(ctx, candidates, req.Password, now)
	if err != nil {
		return session.AuthResponse{}, err
	}

	for _, m := range matched {
		if err := s.verifier.UpgradeIfNeeded(ctx, m.user.ID, req.Password, m.result); err != nil {
			slog.Error("Password upgrade failed", "user_id", m.user.ID, "error", err)
		}
	}

	memberships := make([]session.Membership, 0, len(matched))
	for _, m := range matched {
		t, err := s.tenants.GetByID(ctx, m.user.TenantID)
		if err != nil {
			return session.AuthResponse{}, fmt.Errorf("failed to get tenant for user: %w", err)
		}
		memberships = append(memberships, session.Membership{TenantID: t.ID, TenantName: t.Name, Role: m.user.Role})
	}

	u := matched[0].user
	sess := session.Session{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		TenantID:   u.TenantID,
		TenantName: memberships[0].TenantName,
		EmployeeID: u.EmployeeID,
		Email:      u.Email,
		Role:       u.Role,
	}

	var tokens session.TokenResponse
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.users.RecordSuccessfulLogin(txCtx, u.ID, now); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}

		tokens.AccessToken, tokens.AccessTokenExpiresIn, err = s.tokens.GenerateAccessToken(sess)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokens.RefreshToken, tokens.RefreshTokenExpiresIn, err = s.tokens.GenerateRefreshToken(sess.ID, u.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		record := session.Record{
			ID:        sess.ID,
			UserID:    u.ID,
			TenantID:  u.TenantID,
			UserAgent: tracking.UserAgent,
			IPAddress: tracking.IPAddress,
			ExpiresAt: time.Unix(tokens.RefreshTokenExpiresIn, 0),
		}
		if err := s.sessions.Create(txCtx, record, tokens.RefreshToken); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return session.AuthResponse{}, err
	}

	resp := session.NewSessionResponse(sess)
	resp.Memberships = memberships
	return session.AuthResponse{Session: resp, Tokens: tokens}, nil
}

type membershipMatch struct {
	user   user.User
	result password.Result
}

// authenticate checks the password against every active membership of the
// email. The oldest matching membership comes first and becomes the primary
// tenant. Locked memberships are skipped; when nothing matched and every
// active membership is locked the login reports ErrAccountLocked.
func (s *SessionServiceImpl) authenticate(ctx context.Context, candidates []user.User, plaintext string, now time.Time) ([]membershipMatch, error) {
	var (
		matched    []membershipMatch
		mismatched []user.User
		locked     bool
	)
	for _, u := range candidates {
		if !u.IsActive {
			continue
		}
		if u.IsLocked(now) {
			locked = true
			continue
		}
		result := s.verifier.Verify(plaintext, u.PasswordHash)
		if result.Matched() {
			matched = append(matched, membershipMatch{user: u, result: result})
		} else {
			mismatched = append(mismatched, u)
		}
	}

	if len(matched) > 0 {
		return matched, nil
	}
	if locked && len(mismatched) == 0 {
		return nil, session.ErrAccountLocked
	}
	for _, u := range mismatched {
		if err := s.recordFailure(ctx, u.ID, now); err != nil {
			return nil, err
		}
	}
	return nil, session.ErrInvalidCredentials
}

// recordFailure bumps the attempt counter and logs when the threshold opened
// a lockout window.
func (s *SessionServiceImpl) recordFailure(ctx context.Context, userID string, now time.Time) error {
	failed, err := s.users.RecordFailedLogin(ctx, userID, now, s.lockout.MaxAttempts, s.lockout.Window)
	if err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	if failed.LockedUntil != nil {
		slog.Warn("Account locked after repeated failed logins", "user_id", userID, "attempts", failed.Attempts)
	}
	return nil
}

// Restore implements session.Service.
func (s *SessionServiceImpl) Restore(ctx context.Context, refreshToken string) (session.AuthResponse, error) {
	if refreshToken == "" {
		return session.AuthResponse{}, session.ErrRefreshTokenMissing
	}

	sess, err := s.resolve(ctx, refreshToken)
	if err != nil {
		slog.Debug("Session restore rejected", "error", err)
		s.invalidate(ctx, refreshToken)
		return session.AuthResponse{}, session.ErrSessionNotFound
	}

	if err := s.sessions.MarkRestored(ctx, sess.ID, s.now()); err != nil {
		slog.Warn("Failed to mark session restored", "session_id", sess.ID, "error", err)
	}

	var tokens session.TokenResponse
	tokens.AccessToken, tokens.AccessTokenExpiresIn, err = s.tokens.GenerateAccessToken(sess)
	if err != nil {
		return session.AuthResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return session.AuthResponse{Session: restoredResponse(sess), Tokens: tokens}, nil
}

// restoredResponse lists only the session's own tenant. Other memberships
// need the password, which a refresh token does not prove.
func restoredResponse(sess session.Session) session.SessionResponse {
	resp := session.NewSessionResponse(sess)
	resp.Memberships = []session.Membership{{TenantID: sess.TenantID, TenantName: sess.TenantName, Role: sess.Role}}
	return resp
}

// resolve rebuilds the session behind refreshToken from current rows.
func (s *SessionServiceImpl) resolve(ctx context.Context, refreshToken string) (session.Session, error) {
	sid, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return session.Session{}, err
	}

	record, err := s.sessions.GetByToken(ctx, refreshToken)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if record.ID != sid {
		return session.Session{}, session.ErrInvalidToken
	}
	if !record.IsActive(s.now()) {
		return session.Session{}, session.ErrSessionNotFound
	}

	u, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get session user: %w", err)
	}
	if !u.IsActive || u.TenantID != record.TenantID {
		return session.Session{}, session.ErrSessionNotFound
	}

	t, err := s.tenants.GetByID(ctx, record.TenantID)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get session tenant: %w", err)
	}

	return session.Session{
		ID:         record.ID,
		UserID:     u.ID,
		TenantID:   t.ID,
		TenantName: t.Name,
		EmployeeID: u.EmployeeID,
		Email:      u.Email,
		Role:       u.Role,
	}, nil
}

// invalidate revokes whatever row refreshToken points at. Errors are logged
// only; the caller is already failing the request.
func (s *SessionServiceImpl) invalidate(ctx context.Context, refreshToken string) {
	record, err := s.sessions.GetByToken(ctx, refreshToken)
	if err != nil {
		return
	}
	if err := s.sessions.Revoke(ctx, record.ID); err != nil {
		slog.Warn("Failed to revoke stale session", "session_id", record.ID, "error", err)
	}
	s.tokens.RevokeSession(record.ID)
}

// Destroy implements session.Service.
func (s *SessionServiceImpl) Destroy(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if sid, err := s.tokens.ParseRefreshToken(refreshToken); err == nil {
		s.tokens.RevokeSession(sid)
	}

	record, err := s.sessions.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	if err := s.sessions.Revoke(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	s.tokens.RevokeSession(record.ID)
	return nil
}

// PurgeInactive drops session rows that expired or were revoked more than
// retention ago.
func (s *SessionServiceImpl) PurgeInactive(ctx context.Context, retention time.Duration) error {
	n, err := s.sessions.PurgeInactive(ctx, s.now().Add(-retention))
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		slog.Info("Purged inactive sessions", "count", n)
	}
	return nil
}
