package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jotterhq/jotter/internal/domain"
	"github.com/jotterhq/jotter/internal/store"
	"github.com/jotterhq/jotter/pkg/cryptox"
	"github.com/jotterhq/jotter/pkg/idx"
	"github.com/jotterhq/jotter/pkg/jwtx"
	"github.com/jotterhq/jotter/pkg/slogx"
)

// AuthMetrics counts authentication outcomes. A nil value disables
// recording. Implementations must be safe for concurrent use.
type AuthMetrics interface {
	RecordSignup()
	RecordLogin()
	RecordLogout()
	RecordRotation()
	RecordRefreshFailure(reason string)
}

// AuthService owns accounts and refresh sessions. Access tokens are
// stateless JWTs; refresh tokens are JWTs whose SHA-256 fingerprint is
// additionally pinned to a single server-side session record per
// (user, device), so a refresh token is worthless once its record has
// been rotated, revoked or expired.
type AuthService struct {
	Store   store.Store
	Issuer  *jwtx.Issuer
	Metrics AuthMetrics
}

// SignupParams carries the fields of a registration request.
type SignupParams struct {
	Email    string
	Username string
	Password string
	Device   domain.Device
}

// LoginParams carries the fields of a login request. UsernameOrEmail is
// matched against emails first, then usernames.
type LoginParams struct {
	UsernameOrEmail string
	Password        string
	Device          domain.Device
}

// Signup registers a new account and opens its first session. Any live
// sessions that somehow exist for the user are revoked so the fresh
// credentials are the only way in.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (*domain.AuthResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate and normalise input.
	email, err := normalizeEmail(p.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, &ValidationError{Msg: "username is required"}
	}
	if p.Password == "" {
		return nil, &ValidationError{Msg: "password is required"}
	}
	if err := validateDevice(p.Device); err != nil {
		return nil, err
	}

	// 2. Reject duplicates up front for a friendly error. The unique
	// constraints in the store still backstop concurrent signups.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username already in use", ErrConflict)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	// 3. Hash the password and create the account.
	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: account already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 4. Issue the first token pair and persist its session, revoking
	// anything live for this user in the same transaction.
	result, sess, err := s.issuePair(&user, p.Device)
	if err != nil {
		return nil, err
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshSessions().RevokeActiveSessionsForUser(ctx, user.ID); err != nil {
			return err
		}
		return tx.RefreshSessions().CreateSession(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.recordSignup()
	log.Info("user signed up",
		"user_id", user.ID,
		"device_id", p.Device.DeviceID,
	)
	return result, nil
}

// Login verifies credentials and replaces this device's session with a
// fresh one. Other devices keep their sessions.
func (s *AuthService) Login(ctx context.Context, p LoginParams) (*domain.AuthResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	identity := strings.TrimSpace(p.UsernameOrEmail)
	if identity == "" {
		return nil, &ValidationError{Msg: "username or email is required"}
	}
	if p.Password == "" {
		return nil, &ValidationError{Msg: "password is required"}
	}
	if err := validateDevice(p.Device); err != nil {
		return nil, err
	}

	// 2. Resolve the account.
	user, err := s.lookupUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	// 3. Check the password.
	if err := cryptox.VerifyPassword(p.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrHashMismatch) {
			return nil, fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}

	// 4. Swap in a new session for this device only.
	result, sess, err := s.issuePair(&user, p.Device)
	if err != nil {
		return nil, err
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshSessions().RevokeActiveSessionsForUserDevice(ctx, user.ID, p.Device.DeviceID); err != nil {
			return err
		}
		return tx.RefreshSessions().CreateSession(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s.recordLogin()
	log.Info("user logged in",
		"user_id", user.ID,
		"device_id", p.Device.DeviceID,
	)
	return result, nil
}

// Logout ends the live session for (user, device). The refresh token in
// hand must be the one the session was minted for.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, device domain.Device) error {
	log := slogx.FromContext(ctx)

	if err := validateDevice(device); err != nil {
		return err
	}
	if refreshToken == "" {
		return fmt.Errorf("%w: missing refresh token", ErrInvalidToken)
	}

	// 1. Only authentic, unexpired tokens may end a session.
	claims, err := s.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return fmt.Errorf("%w: refresh token rejected", ErrInvalidToken)
	}

	// 2. Find the live session for this device.
	sess, err := s.Store.RefreshSessions().GetActiveSession(ctx, claims.UserID, device.DeviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: no live session for device", ErrInvalidToken)
		}
		return fmt.Errorf("load session: %w", err)
	}

	// 3. The cookie must carry the session's own token.
	if !fingerprintMatches(refreshToken, sess.TokenHash) {
		return fmt.Errorf("%w: token does not match live session", ErrInvalidToken)
	}

	// 4. Revoke the matched record by its own id.
	if err := s.Store.RefreshSessions().SetSessionState(ctx, sess.ID, domain.SessionRevoked); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.recordLogout()
	log.Info("user logged out",
		"user_id", claims.UserID,
		"device_id", device.DeviceID,
	)
	return nil
}

// Refresh redeems a refresh token for a new token pair, rotating the
// session record so the old token can never redeem twice.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, device domain.Device) (*domain.AuthResult, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if err := validateDevice(device); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		s.recordRefreshFailure("missing_token")
		return nil, fmt.Errorf("%w: missing refresh token", ErrInvalidToken)
	}

	// 1. Verify the presented token. An expired token whose signature
	// still checks out names its real owner, so its session ends
	// cleanly; a forged or mangled one names no one, and only sessions
	// pinned to the bare device id can be cleared.
	claims, err := s.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) && claims != nil && claims.UserID != "" {
			return nil, s.expireSession(ctx, claims.UserID, refreshToken, device)
		}
		_ = s.Store.RefreshSessions().RevokeActiveSessionsForDevice(ctx, device.DeviceID)
		s.recordRefreshFailure("bad_token")
		return nil, fmt.Errorf("%w: refresh token rejected", ErrInvalidToken)
	}

	// 2. Load the single live session for (user, device).
	sess, err := s.Store.RefreshSessions().GetActiveSession(ctx, claims.UserID, device.DeviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recordRefreshFailure("no_session")
			return nil, fmt.Errorf("%w: no live session for device", ErrInvalidToken)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	// 3. The account must still exist.
	user, err := s.Store.Users().GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = s.Store.RefreshSessions().DeleteSessionsForUser(ctx, claims.UserID)
			s.recordRefreshFailure("user_gone")
			return nil, fmt.Errorf("%w: account no longer exists", ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	// 4. The presented token must be the one this session was minted
	// for. A stale token from before the last rotation fails here.
	if !fingerprintMatches(refreshToken, sess.TokenHash) {
		s.recordRefreshFailure("stale_token")
		return nil, fmt.Errorf("%w: token does not match live session", ErrInvalidToken)
	}

	// 5. Record-level expiry ends the session for good. The JWT exp and
	// the record's expiry are minted together, so this only fires
	// inside the verifier's leeway window.
	if !now.Before(sess.ExpiresAt) {
		if err := s.Store.RefreshSessions().SetSessionState(ctx, sess.ID, domain.SessionExpired); err != nil {
			return nil, fmt.Errorf("expire session: %w", err)
		}
		s.recordRefreshFailure("expired")
		return nil, fmt.Errorf("%w: session expired", ErrExpiredToken)
	}

	// 6. Rotate: close the old record and insert its replacement in one
	// transaction.
	result, next, err := s.issuePair(&user, device)
	if err != nil {
		return nil, err
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshSessions().SetSessionState(ctx, sess.ID, domain.SessionRotated); err != nil {
			return err
		}
		return tx.RefreshSessions().CreateSession(ctx, next)
	})
	if err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	s.recordRotation()
	log.Info("refresh token rotated",
		"user_id", user.ID,
		"device_id", device.DeviceID,
		"session_id", next.ID,
	)
	return result, nil
}

// Me returns the account behind an access token's subject.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// expireSession handles a refresh attempt with an authentic token whose
// JWT lifetime has lapsed. If the token still matches the live session
// for (user, device), that session transitions to expired and the
// caller learns the session is over; a second attempt with the same
// token then finds no live session at all.
func (s *AuthService) expireSession(ctx context.Context, userID, refreshToken string, device domain.Device) error {
	sess, err := s.Store.RefreshSessions().GetActiveSession(ctx, userID, device.DeviceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recordRefreshFailure("no_session")
			return fmt.Errorf("%w: no live session for device", ErrInvalidToken)
		}
		return fmt.Errorf("load session: %w", err)
	}
	if !fingerprintMatches(refreshToken, sess.TokenHash) {
		s.recordRefreshFailure("stale_token")
		return fmt.Errorf("%w: token does not match live session", ErrInvalidToken)
	}
	if err := s.Store.RefreshSessions().SetSessionState(ctx, sess.ID, domain.SessionExpired); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	s.recordRefreshFailure("expired")
	return fmt.Errorf("%w: session expired", ErrExpiredToken)
}

// issuePair signs an access and refresh token for the user and builds
// the session record pinning the refresh token to this device. Only the
// token's fingerprint is stored.
func (s *AuthService) issuePair(user *domain.User, device domain.Device) (*domain.AuthResult, domain.RefreshSession, error) {
	access, err := s.Issuer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, domain.RefreshSession{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Issuer.IssueRefresh(user.ID, user.Email)
	if err != nil {
		return nil, domain.RefreshSession{}, fmt.Errorf("issue refresh token: %w", err)
	}

	sess := domain.RefreshSession{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(refresh),
		State:     domain.SessionActive,
		Device:    device,
		ExpiresAt: time.Now().UTC().Add(s.Issuer.RefreshTTL()),
	}
	result := &domain.AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshTTL:   s.Issuer.RefreshTTL(),
	}
	return result, sess, nil
}

func (s *AuthService) lookupUser(ctx context.Context, identity string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, strings.ToLower(identity))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup by email: %w", err)
	}

	user, err = s.Store.Users().GetUserByUsername(ctx, identity)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: unknown account", ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("lookup by username: %w", err)
	}
	return user, nil
}

// fingerprintMatches compares the presented token's fingerprint against
// a stored one in constant time. Both sides are fixed-width digests.
func fingerprintMatches(rawToken, storedHash string) bool {
	fp := cryptox.FingerprintToken(rawToken)
	return subtle.ConstantTimeCompare([]byte(fp), []byte(storedHash)) == 1
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", &ValidationError{Msg: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", &ValidationError{Msg: "email is invalid"}
	}
	return email, nil
}

func validateDevice(d domain.Device) error {
	if strings.TrimSpace(d.DeviceID) == "" {
		return &ValidationError{Msg: "device info is required"}
	}
	return nil
}

func (s *AuthService) recordSignup() {
	if s.Metrics != nil {
		s.Metrics.RecordSignup()
	}
}

func (s *AuthService) recordLogin() {
	if s.Metrics != nil {
		s.Metrics.RecordLogin()
	}
}

func (s *AuthService) recordLogout() {
	if s.Metrics != nil {
		s.Metrics.RecordLogout()
	}
}

func (s *AuthService) recordRotation() {
	if s.Metrics != nil {
		s.Metrics.RecordRotation()
	}
}

func (s *AuthService) recordRefreshFailure(reason string) {
	if s.Metrics != nil {
		s.Metrics.RecordRefreshFailure(reason)
	}
}
