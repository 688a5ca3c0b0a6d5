package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	redisclient "github.com/dealdesk/merchant-portal/pkg/redis"
	"github.com/google/uuid"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, error) { return "", errors.New("conn refused") }
func (failingKV) Set(context.Context, string, any, time.Duration) error {
	return errors.New("conn refused")
}
func (failingKV) SettingsKey(merchantID, name string) string { return merchantID + ":" + name }

func newMemoryStore(t *testing.T) (*RedisStore, *redisclient.Client) {
	t.Helper()
	client := redisclient.NewInMemory()
	store, err := NewRedisStore(client)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, client
}

func TestRedisStoreDefaultsToFalse(t *testing.T) {
	store, _ := newMemoryStore(t)
	got, err := store.Load(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (Settings{}) {
		t.Fatalf("expected zero settings, got %+v", got)
	}
}

func TestRedisStoreWritesPlainBooleans(t *testing.T) {
	store, client := newMemoryStore(t)
	ctx := context.Background()
	merchant := uuid.NewString()

	if err := store.Save(ctx, merchant, Settings{DarkMode: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := client.Get(ctx, client.SettingsKey(merchant, KeyDarkMode))
	if err != nil || raw != "true" {
		t.Fatalf("expected \"true\", got %q %v", raw, err)
	}
	raw, _ = client.Get(ctx, client.SettingsKey(merchant, KeyAuthenticated))
	if raw != "false" {
		t.Fatalf("expected \"false\", got %q", raw)
	}

	got, err := store.Load(ctx, merchant)
	if err != nil || !got.DarkMode || got.Authenticated {
		t.Fatalf("unexpected round trip %+v %v", got, err)
	}
}

func TestRedisStoreIgnoresGarbage(t *testing.T) {
	store, client := newMemoryStore(t)
	ctx := context.Background()
	merchant := uuid.NewString()
	_ = client.Set(ctx, client.SettingsKey(merchant, KeyDarkMode), "yes please", 0)

	got, err := store.Load(ctx, merchant)
	if err != nil || got.DarkMode {
		t.Fatalf("expected unparseable flag to read false, got %+v %v", got, err)
	}
}

func TestContextAccessors(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no settings on a bare context")
	}
	ctx := WithSettings(context.Background(), Settings{DarkMode: true})
	got, ok := FromContext(ctx)
	if !ok || !got.DarkMode {
		t.Fatalf("expected dark mode from context, got %+v %v", got, ok)
	}
}

func TestServiceUpdateAndAuthenticated(t *testing.T) {
	store, _ := newMemoryStore(t)
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	merchant := uuid.New()

	if err := svc.SetAuthenticated(ctx, merchant, true); err != nil {
		t.Fatalf("set authenticated: %v", err)
	}
	dark := true
	got, err := svc.Update(ctx, merchant, Update{DarkMode: &dark})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.DarkMode || !got.Authenticated {
		t.Fatalf("expected both flags set, got %+v", got)
	}

	if err := svc.SetAuthenticated(ctx, merchant, false); err != nil {
		t.Fatalf("clear authenticated: %v", err)
	}
	got, _ = svc.Get(ctx, merchant)
	if got.Authenticated || !got.DarkMode {
		t.Fatalf("logout must keep dark mode, got %+v", got)
	}
}

func TestServiceDependencyErrors(t *testing.T) {
	svc, _ := NewService(&RedisStore{kv: failingKV{}})
	if _, err := svc.Get(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error without store")
	}
	if _, err := NewRedisStore(nil); err == nil {
		t.Fatal("expected error without client")
	}
}
