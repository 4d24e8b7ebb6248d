package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotFound means the session token is valid but no live session backs
// it: logged out, expired, or never created.
var ErrNotFound = errors.New("session not found")

// Manager owns the admin session. The client-facing token is a signed JWT
// holding only a session id; the upstream bearer token it maps to lives in
// Redis, so sessions survive process restarts and logout is a single key
// delete. There is no refresh logic: a session is trusted until it expires
// or is destroyed.
type Manager struct {
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func NewManager(redisClient *redis.Client, secret string, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		redis:  redisClient,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create stores upstreamToken under a fresh session id and returns the
// signed session token for the admin client.
func (m *Manager) Create(ctx context.Context, upstreamToken string) (string, error) {
	id := uuid.NewString()

	if err := m.redis.Set(ctx, sessionKey(id), upstreamToken, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("Create: redis.Set: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sid": id,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("Create: SignedString: %w", err)
	}

	m.logger.Info("Session created", zap.String("session_id", id))
	return signed, nil
}

// Resolve verifies the session token and returns the upstream bearer token
// it maps to.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	id, err := m.sessionID(token)
	if err != nil {
		return "", err
	}

	upstreamToken, err := m.redis.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("Resolve: redis.Get: %w", err)
	}

	return upstreamToken, nil
}

// Destroy removes the session. Destroying an already-dead session is not
// an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	id, err := m.sessionID(token)
	if err != nil {
		return err
	}

	if err := m.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("Destroy: redis.Del: %w", err)
	}

	m.logger.Info("Session destroyed", zap.String("session_id", id))
	return nil
}

func (m *Manager) sessionID(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrNotFound
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrNotFound
	}
	id, ok := claims["sid"].(string)
	if !ok || id == "" {
		return "", ErrNotFound
	}

	return id, nil
}
