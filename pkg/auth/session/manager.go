package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/config"
	redisclient "github.com/dealdesk/merchant-portal/pkg/redis"
	"github.com/google/uuid"
)

const (
	refreshTokenBytes = 32
	valueSeparator    = "|"
)

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Issued is a refresh session keyed by the access token's jti.
type Issued struct {
	AccessID     string
	RefreshToken string
	MerchantID   string
}

// Manager stores refresh tokens in Redis as "<merchant>|<token>" under the
// access id so a refresh can only ever mint tokens for the same merchant.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker is the read-only surface the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, client, cfg)
}

func newManager(store sessionStore, keyer sessionKeyer, cfg config.JWTConfig) (*Manager, error) {
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: store, keyer: keyer, ttl: ttl}, nil
}

// Generate opens a session for merchantID and returns its access id and refresh token.
func (m *Manager) Generate(ctx context.Context, merchantID string) (Issued, error) {
	if strings.TrimSpace(merchantID) == "" {
		return Issued{}, fmt.Errorf("merchant id is required")
	}
	issued := Issued{AccessID: NewAccessID(), MerchantID: merchantID}
	token, err := generateRefreshToken()
	if err != nil {
		return Issued{}, err
	}
	issued.RefreshToken = token
	if err := m.store.Set(ctx, m.keyer.AccessSessionKey(issued.AccessID), encode(merchantID, token), m.ttl); err != nil {
		return Issued{}, err
	}
	return issued, nil
}

// Rotate checks provided against the session of oldAccessID, retires it and
// opens a fresh one for the same merchant.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, provided string) (Issued, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return Issued{}, ErrInvalidRefreshToken
	}

	key := m.keyer.AccessSessionKey(oldAccessID)
	stored, err := m.store.Get(ctx, key)
	if err != nil {
		if redisclient.IsNil(err) {
			return Issued{}, ErrInvalidRefreshToken
		}
		return Issued{}, err
	}

	merchantID, token, ok := decode(stored)
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(provided)) != 1 {
		return Issued{}, ErrInvalidRefreshToken
	}

	next, err := m.Generate(ctx, merchantID)
	if err != nil {
		return Issued{}, err
	}
	if err := m.store.Del(ctx, key); err != nil {
		return Issued{}, err
	}
	return next, nil
}

// Revoke ends the session tied to accessID.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.AccessSessionKey(accessID))
}

// HasSession reports whether accessID still has a live refresh session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		if redisclient.IsNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces the identifier used as JWT jti and Redis key.
func NewAccessID() string {
	return uuid.NewString()
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func encode(merchantID, token string) string {
	return merchantID + valueSeparator + token
}

func decode(value string) (string, string, bool) {
	merchantID, token, ok := strings.Cut(value, valueSeparator)
	if !ok || merchantID == "" || token == "" {
		return "", "", false
	}
	return merchantID, token, true
}
