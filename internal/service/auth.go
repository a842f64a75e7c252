package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/partydeck/partydeck-server/internal/auth"
	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/domain"
	domainerrors "github.com/partydeck/partydeck-server/internal/errors"
	"github.com/partydeck/partydeck-server/internal/id"
	"github.com/partydeck/partydeck-server/internal/metrics"
	"github.com/partydeck/partydeck-server/internal/store"
	"github.com/partydeck/partydeck-server/internal/validation"
)

// Auth messages.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgTooManyAttempts    = "Too many login attempts. Please try again later."
	MsgInvalidToken       = "Invalid or expired token"
	MsgWrongPassword      = "Current password is incorrect"
)

// AuthService handles admin login, bearer sessions, and password changes.
type AuthService struct {
	store     store.Store
	validator *validation.Validator
	cfg       config.AuthConfig
	logger    *slog.Logger

	// now is the clock. Replaced in tests.
	now func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store store.Store, validator *validation.Validator, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// LoginRequest contains admin credentials.
type LoginRequest struct {
	Username string `json:"username" required:"false" validate:"notblank"`
	Password string `json:"password" required:"false" validate:"required"`
}

// AdminSummary is the public view of an admin.
type AdminSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     AdminSummary `json:"admin"`
}

// ChangePasswordRequest changes the signed-in admin's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" required:"false" validate:"required"`
	NewPassword     string `json:"new_password" required:"false" validate:"required,min=6,max=1024"`
}

// Login verifies credentials and opens a session.
//
// Failed attempts are counted per IP; once MaxLoginAttempts fail inside
// LoginWindow, every login from that IP is refused until the window slides.
// The response never says whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	windowStart := now.Add(-s.cfg.LoginWindow)

	if _, err := s.store.PurgeLoginAttempts(ctx, windowStart); err != nil {
		return nil, fmt.Errorf("purge login attempts: %w", err)
	}

	failed, err := s.store.CountFailedLoginAttempts(ctx, ip, windowStart)
	if err != nil {
		return nil, fmt.Errorf("count login attempts: %w", err)
	}
	if failed >= s.cfg.MaxLoginAttempts {
		metrics.LoginsTotal.WithLabelValues(metrics.LoginThrottled).Inc()
		s.logger.Warn("login throttled", "ip", ip, "failed_attempts", failed)
		return nil, domainerrors.TooManyRequests(MsgTooManyAttempts)
	}

	admin, ok, err := s.checkCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := s.store.RecordLoginAttempt(ctx, ip, req.Username, false, now); err != nil {
			return nil, fmt.Errorf("record login attempt: %w", err)
		}
		metrics.LoginsTotal.WithLabelValues(metrics.LoginFailure).Inc()
		s.logger.Info("login failed", "ip", ip, "username", req.Username)
		return nil, domainerrors.InvalidCredentials(MsgInvalidCredentials)
	}

	if auth.IsLegacyHash(admin.PasswordHash) {
		s.upgradeHash(ctx, admin.ID, req.Password)
	}

	token, err := id.SessionToken()
	if err != nil {
		return nil, err
	}

	session := &domain.AdminSession{
		AdminID:   admin.ID,
		TokenHash: auth.HashToken(token),
		ExpiresAt: now.Add(s.cfg.TokenTTL).UTC(),
		CreatedAt: now.UTC(),
		IPAddress: ip,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := s.store.RecordLoginAttempt(ctx, ip, req.Username, true, now); err != nil {
		return nil, fmt.Errorf("record login attempt: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	s.logger.Info("admin logged in", "admin_id", admin.ID, "ip", ip)

	return &LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Admin:     AdminSummary{ID: admin.ID, Username: admin.Username},
	}, nil
}

// checkCredentials reports whether username and password match an admin.
func (s *AuthService) checkCredentials(ctx context.Context, username, password string) (*domain.Admin, bool, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get admin: %w", err)
	}

	ok, err := auth.VerifyPassword(admin.PasswordHash, password)
	if err != nil {
		return nil, false, fmt.Errorf("verify password: %w", err)
	}
	return admin, ok, nil
}

// upgradeHash replaces a bcrypt hash with argon2id. Failure only costs a
// retry on the next login.
func (s *AuthService) upgradeHash(ctx context.Context, adminID int64, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.store.UpdateAdminPassword(ctx, adminID, hash)
	}
	if err != nil {
		s.logger.Warn("password hash upgrade failed", "admin_id", adminID, "error", err)
		return
	}
	s.logger.Info("password hash upgraded to argon2id", "admin_id", adminID)
}

// Logout ends the session for token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSessionByTokenHash(ctx, auth.HashToken(token))
}

// Validate returns the admin owning token, or nil when the token is unknown
// or expired. Every call first purges all expired sessions.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.Admin, error) {
	now := s.now()
	if _, err := s.store.DeleteExpiredSessions(ctx, now); err != nil {
		return nil, fmt.Errorf("purge sessions: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	_, admin, err := s.store.GetValidSession(ctx, auth.HashToken(token), now)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return admin, nil
}

// RequireAuth is Validate that fails with 401 instead of returning nil.
func (s *AuthService) RequireAuth(ctx context.Context, token string) (*domain.Admin, error) {
	admin, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domainerrors.Unauthorized(MsgInvalidToken)
	}
	return admin, nil
}

// EnsureDefaultAdmin creates the bootstrap admin when no admin exists.
// Reports whether an admin was created.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	count, err := s.store.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(s.cfg.DefaultAdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	admin := &domain.Admin{Username: s.cfg.DefaultAdminUsername, PasswordHash: hash}
	err = s.store.CreateAdmin(ctx, admin)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Another process bootstrapped first.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	s.logger.Warn("default admin created, change its password",
		"username", admin.Username, "admin_id", admin.ID)
	return true, nil
}

// ChangePassword replaces the admin's password after checking the current
// one. Every other session of the admin is revoked; the caller's survives.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, currentToken string, req ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	admin, err := s.store.GetAdmin(ctx, adminID)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.Unauthorized(MsgInvalidToken)
	}
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}

	ok, err := auth.VerifyPassword(admin.PasswordHash, req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domainerrors.Forbidden(MsgWrongPassword)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateAdminPassword(ctx, adminID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	revoked, err := s.store.DeleteAdminSessions(ctx, adminID, auth.HashToken(currentToken))
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.Info("admin password changed", "admin_id", adminID, "sessions_revoked", revoked)
	return nil
}

// PurgeExpiredSessions removes expired sessions; used by the periodic job.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.SessionsPurgedTotal.Add(float64(n))
	return n, nil
}
