package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-broker/internal/common/config"
	"loan-broker/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidSession = errors.New("INVALID_SESSION")
	ErrSessionStore   = errors.New("SESSION_STORE_ERROR")
)

// Claims is the payload of the signed session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}

// Session is a freshly created session ready to be written as a cookie.
type Session struct {
	Token  string
	MaxAge time.Duration
}

// SessionManager signs session cookies and keeps the matching record in Redis.
type SessionManager struct {
	client      redis.Cmdable
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

func NewSessionManager(client redis.Cmdable, cfg config.SessionConfig) *SessionManager {
	return &SessionManager{
		client:      client,
		secret:      []byte(cfg.Secret),
		ttl:         time.Duration(cfg.TTL) * time.Second,
		rememberTTL: time.Duration(cfg.RememberTTL) * time.Second,
		now:         time.Now,
	}
}

func sessionKey(userID int64, sessionID string) string {
	return fmt.Sprintf("session:%d:%s", userID, sessionID)
}

// Create starts a session for userID. Remember selects the long TTL.
func (m *SessionManager) Create(ctx context.Context, userID int64, remember bool) (*Session, error) {
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}

	now := m.now()
	sid := uuid.New().String()

	record, err := json.Marshal(models.SessionRecord{UserID: userID, CreatedAt: now.UTC(), Remember: remember})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.client.Set(ctx, sessionKey(userID, sid), record, ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStore, err)
	}

	claims := Claims{
		SessionID: sid,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &Session{Token: token, MaxAge: ttl}, nil
}

func (m *SessionManager) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if claims.SessionID == "" || claims.UserID == 0 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Resolve verifies token and returns the user id it belongs to. A token whose Redis
// record is gone (logged out or expired) is invalid.
func (m *SessionManager) Resolve(ctx context.Context, token string) (int64, error) {
	claims, err := m.parse(token)
	if err != nil {
		return 0, err
	}

	raw, err := m.client.Get(ctx, sessionKey(claims.UserID, claims.SessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidSession
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSessionStore, err)
	}

	var record models.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil || record.UserID != claims.UserID {
		return 0, ErrInvalidSession
	}
	return record.UserID, nil
}

// Destroy removes the session record. Unparseable tokens are ignored.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	if err := m.client.Del(ctx, sessionKey(claims.UserID, claims.SessionID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionStore, err)
	}
	return nil
}
