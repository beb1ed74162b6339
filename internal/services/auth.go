package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"habiterr/internal/database"
	"habiterr/internal/models"
)

const minPasswordLength = 8

type AuthStore interface {
	database.UserStore
	database.SessionStore
}

// AuthService owns email/password accounts and cookie sessions.
type AuthService struct {
	store AuthStore
	ttl   time.Duration
	now   func() time.Time
	cost  int
}

type AuthOption func(*AuthService)

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AuthOption {
	return func(a *AuthService) { a.cost = cost }
}

func WithClock(now func() time.Time) AuthOption {
	return func(a *AuthService) { a.now = now }
}

func NewAuthService(store AuthStore, ttl time.Duration, opts ...AuthOption) *AuthService {
	a := &AuthService{store: store, ttl: ttl, now: time.Now, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CreateUser registers an account without opening a session.
func (a *AuthService) CreateUser(ctx context.Context, email, password, name string) (models.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return models.User{}, invalid("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return models.User{}, invalid("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    a.now(),
	}
	if err := a.store.CreateUser(ctx, u); err != nil {
		return models.User{}, storeErr(err, "email already registered")
	}
	return u, nil
}

func (a *AuthService) Signup(ctx context.Context, email, password, name string) (models.User, models.Session, error) {
	u, err := a.CreateUser(ctx, email, password, name)
	if err != nil {
		return u, models.Session{}, err
	}
	sess, err := a.newSession(ctx, u.ID)
	return u, sess, err
}

func (a *AuthService) Login(ctx context.Context, email, password string) (models.User, models.Session, error) {
	u, err := a.VerifyPassword(ctx, email, password)
	if err != nil {
		return u, models.Session{}, err
	}
	sess, err := a.newSession(ctx, u.ID)
	return u, sess, err
}

// VerifyPassword checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (a *AuthService) VerifyPassword(ctx context.Context, email, password string) (models.User, error) {
	u, err := a.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, storeErr(err, "error getting user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrUnauthorized
	}
	return u, nil
}

// Authenticate resolves a session token to its user.
func (a *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, ErrUnauthorized
	}
	sess, err := a.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, storeErr(err, "error getting session")
	}
	if a.now().After(sess.ExpiresAt) {
		if err := a.store.DeleteSession(ctx, token); err != nil {
			return models.User{}, storeErr(err, "error deleting session")
		}
		return models.User{}, ErrUnauthorized
	}
	u, err := a.store.GetUser(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, storeErr(err, "error getting user")
	}
	return u, nil
}

func (a *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.store.DeleteSession(ctx, token); err != nil {
		return storeErr(err, "error deleting session")
	}
	return nil
}

func (a *AuthService) UserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := a.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return u, storeErr(err, "error getting user")
	}
	return u, nil
}

// PurgeExpired drops sessions past their expiry.
func (a *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := a.store.DeleteExpiredSessions(ctx, a.now())
	if err != nil {
		return 0, storeErr(err, "error purging sessions")
	}
	return n, nil
}

func (a *AuthService) newSession(ctx context.Context, userID string) (models.Session, error) {
	token, err := randomHex(32)
	if err != nil {
		return models.Session{}, err
	}
	now := a.now()
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(a.ttl),
		CreatedAt: now,
	}
	if err := a.store.CreateSession(ctx, sess); err != nil {
		return models.Session{}, storeErr(err, "error creating session")
	}
	return sess, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
