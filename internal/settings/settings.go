package settings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisclient "github.com/dealdesk/merchant-portal/pkg/redis"
)

const (
	KeyDarkMode      = "dark_mode"
	KeyAuthenticated = "authenticated"
)

// Settings are the UI preferences kept across reloads.
type Settings struct {
	DarkMode      bool `json:"dark_mode"`
	Authenticated bool `json:"authenticated"`
}

// Store loads and saves a merchant's settings.
type Store interface {
	Load(ctx context.Context, merchantID string) (Settings, error)
	Save(ctx context.Context, merchantID string, s Settings) error
}

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SettingsKey(merchantID, name string) string
}

// RedisStore keeps each flag as a plain "true"/"false" string under its own key.
type RedisStore struct {
	kv kv
}

func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{kv: client}, nil
}

// Load reads both flags; a missing or unparseable value reads as false.
func (s *RedisStore) Load(ctx context.Context, merchantID string) (Settings, error) {
	dark, err := s.flag(ctx, merchantID, KeyDarkMode)
	if err != nil {
		return Settings{}, err
	}
	authed, err := s.flag(ctx, merchantID, KeyAuthenticated)
	if err != nil {
		return Settings{}, err
	}
	return Settings{DarkMode: dark, Authenticated: authed}, nil
}

func (s *RedisStore) Save(ctx context.Context, merchantID string, settings Settings) error {
	if err := s.kv.Set(ctx, s.kv.SettingsKey(merchantID, KeyDarkMode), strconv.FormatBool(settings.DarkMode), 0); err != nil {
		return fmt.Errorf("save %s: %w", KeyDarkMode, err)
	}
	if err := s.kv.Set(ctx, s.kv.SettingsKey(merchantID, KeyAuthenticated), strconv.FormatBool(settings.Authenticated), 0); err != nil {
		return fmt.Errorf("save %s: %w", KeyAuthenticated, err)
	}
	return nil
}

func (s *RedisStore) flag(ctx context.Context, merchantID, name string) (bool, error) {
	raw, err := s.kv.Get(ctx, s.kv.SettingsKey(merchantID, name))
	if err != nil {
		if redisclient.IsNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", name, err)
	}
	v, perr := strconv.ParseBool(raw)
	if perr != nil {
		return false, nil
	}
	return v, nil
}

type ctxKey struct{}

// WithSettings returns a context carrying s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the settings loaded for this request, if any.
func FromContext(ctx context.Context) (Settings, bool) {
	s, ok := ctx.Value(ctxKey{}).(Settings)
	return s, ok
}
