package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jotterhq/jotter/internal/domain"
	"github.com/jotterhq/jotter/internal/store"
)

type refreshSessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, user_id, token_hash, state,
	device_id, device_name, device_type, platform,
	user_agent, browser_name, browser_version,
	expires_at, created_at, updated_at`

func (r *refreshSessionsRepo) CreateSession(ctx context.Context, s domain.RefreshSession) error {
	now := time.Now().UTC()
	if s.State == "" {
		s.State = domain.SessionActive
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TokenHash, string(s.State),
		s.Device.DeviceID, mapStringNull(s.Device.DeviceName),
		mapStringNull(s.Device.DeviceType), mapStringNull(s.Device.Platform),
		mapStringNull(s.Device.UserAgent), mapStringNull(s.Device.BrowserName),
		mapStringNull(s.Device.BrowserVersion),
		s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *refreshSessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.RefreshSession, error) {
	return scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM refresh_sessions WHERE id = ?`, id))
}

func (r *refreshSessionsRepo) GetActiveSession(ctx context.Context, userID, deviceID string) (domain.RefreshSession, error) {
	return scanSession(r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM refresh_sessions
		 WHERE user_id = ? AND device_id = ? AND state = ?`,
		userID, deviceID, string(domain.SessionActive)))
}

func (r *refreshSessionsRepo) SetSessionState(ctx context.Context, id string, state domain.SessionState) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET state = ?, updated_at = ? WHERE id = ?`,
		string(state), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *refreshSessionsRepo) RevokeActiveSessionsForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET state = ?, updated_at = ?
		 WHERE user_id = ? AND state = ?`,
		string(domain.SessionRevoked), time.Now().UTC(),
		userID, string(domain.SessionActive))
	return err
}

func (r *refreshSessionsRepo) RevokeActiveSessionsForUserDevice(ctx context.Context, userID, deviceID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET state = ?, updated_at = ?
		 WHERE user_id = ? AND device_id = ? AND state = ?`,
		string(domain.SessionRevoked), time.Now().UTC(),
		userID, deviceID, string(domain.SessionActive))
	return err
}

func (r *refreshSessionsRepo) RevokeActiveSessionsForDevice(ctx context.Context, deviceID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET state = ?, updated_at = ?
		 WHERE device_id = ? AND state = ?`,
		string(domain.SessionRevoked), time.Now().UTC(),
		deviceID, string(domain.SessionActive))
	return err
}

func (r *refreshSessionsRepo) DeleteSessionsForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_sessions WHERE user_id = ?`, userID)
	return err
}

func (r *refreshSessionsRepo) PurgeDeadSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_sessions WHERE state != ? OR expires_at <= ?`,
		string(domain.SessionActive), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (domain.RefreshSession, error) {
	var (
		s     domain.RefreshSession
		state string

		deviceName, deviceType, platform       sql.NullString
		userAgent, browserName, browserVersion sql.NullString
	)

	err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &state,
		&s.Device.DeviceID, &deviceName, &deviceType, &platform,
		&userAgent, &browserName, &browserVersion,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.RefreshSession{}, mapNotFound(err)
	}

	s.State = domain.SessionState(state)
	s.Device.DeviceName = mapNullString(deviceName)
	s.Device.DeviceType = mapNullString(deviceType)
	s.Device.Platform = mapNullString(platform)
	s.Device.UserAgent = mapNullString(userAgent)
	s.Device.BrowserName = mapNullString(browserName)
	s.Device.BrowserVersion = mapNullString(browserVersion)

	return s, nil
}
