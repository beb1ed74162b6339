package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"habiterr/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, sess models.Session) error
	GetSession(ctx context.Context, token string) (models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

func (s *service) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`),
		u.ID, u.Email, u.Name, u.PasswordHash, formatTime(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (s *service) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?`), id)
	return scanUser(row)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`), email)
	return scanUser(row)
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrNotFound
		}
		return u, fmt.Errorf("error retrieving user: %w", err)
	}
	var err error
	u.CreatedAt, err = parseTime(createdAt)
	return u, err
}

func (s *service) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`),
		sess.Token, sess.UserID, formatTime(sess.ExpiresAt), formatTime(sess.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

func (s *service) GetSession(ctx context.Context, token string) (models.Session, error) {
	var sess models.Session
	var expiresAt, createdAt string
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`), token,
	).Scan(&sess.Token, &sess.UserID, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sess, ErrNotFound
		}
		return sess, fmt.Errorf("error retrieving session: %w", err)
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return sess, err
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return sess, err
	}
	return sess, nil
}

func (s *service) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE token = ?`), token)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired before now.
// Timestamps are stored as fixed-zone RFC3339 strings so they compare
// lexically.
func (s *service) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE expires_at < ?`), formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}
