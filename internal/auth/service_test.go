package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/internal/settings"
	pkgAuth "github.com/dealdesk/merchant-portal/pkg/auth"
	"github.com/dealdesk/merchant-portal/pkg/auth/session"
	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/db/models"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	redisclient "github.com/dealdesk/merchant-portal/pkg/redis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryMerchants struct {
	byID map[uuid.UUID]*models.Merchant
}

func newMemoryMerchants() *memoryMerchants {
	return &memoryMerchants{byID: map[uuid.UUID]*models.Merchant{}}
}

func (m *memoryMerchants) Create(_ context.Context, dto merchants.CreateMerchantDTO) (*models.Merchant, error) {
	for _, existing := range m.byID {
		if existing.Email == dto.Email {
			return nil, fmt.Errorf("UNIQUE constraint failed: merchants.email")
		}
	}
	model := dto.ToModel()
	model.ID = uuid.New()
	m.byID[model.ID] = model
	cp := *model
	return &cp, nil
}

func (m *memoryMerchants) FindByEmail(_ context.Context, email string) (*models.Merchant, error) {
	for _, existing := range m.byID {
		if existing.Email == email {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryMerchants) FindByID(_ context.Context, id uuid.UUID) (*models.Merchant, error) {
	existing, ok := m.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *existing
	return &cp, nil
}

func (m *memoryMerchants) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	m.byID[id].EmailVerified = true
	return nil
}

func (m *memoryMerchants) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	m.byID[id].LastLoginAt = &at
	return nil
}

type capturingSender struct {
	codes map[string]string
}

func (c *capturingSender) SendOTP(_ context.Context, email, code string) error {
	c.codes[email] = code
	return nil
}

type harness struct {
	svc       Service
	merchants *memoryMerchants
	sender    *capturingSender
	settings  settings.Service
	jwtCfg    config.JWTConfig
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "merchant-portal",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	client := redisclient.NewInMemory()
	jwtCfg := testJWTConfig()

	manager, err := session.NewManager(client, jwtCfg)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	store, err := settings.NewRedisStore(client)
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}
	settingsSvc, err := settings.NewService(store)
	if err != nil {
		t.Fatalf("settings service: %v", err)
	}

	h := &harness{
		merchants: newMemoryMerchants(),
		sender:    &capturingSender{codes: map[string]string{}},
		settings:  settingsSvc,
		jwtCfg:    jwtCfg,
	}
	h.svc, err = NewService(ServiceParams{
		Merchants:      h.merchants,
		SessionManager: manager,
		Settings:       settingsSvc,
		OTPStore:       client,
		OTPSender:      h.sender,
		JWTConfig:      jwtCfg,
		PasswordConfig: config.PasswordConfig{MinLength: 8, ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		OTPConfig:      config.OTPConfig{TTL: 10 * time.Minute, MaxAttempts: 3},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return h
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		OwnerName:       "Nimal Perera",
		BusinessName:    "Ocean Grill",
		Email:           "Owner@OceanGrill.lk",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
	}
}

func (h *harness) registerAndVerify(t *testing.T) *merchants.MerchantDTO {
	t.Helper()
	ctx := context.Background()
	if _, err := h.svc.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	dto, err := h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "owner@oceangrill.lk", Code: h.sender.codes["owner@oceangrill.lk"]})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	return dto
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestRegisterIssuesOTP(t *testing.T) {
	h := newHarness(t)
	resp, err := h.svc.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Merchant.Email != "owner@oceangrill.lk" || resp.Merchant.EmailVerified {
		t.Fatalf("unexpected merchant %+v", resp.Merchant)
	}
	code := h.sender.codes["owner@oceangrill.lk"]
	if len(code) != 6 {
		t.Fatalf("expected a 6 digit code, got %q", code)
	}
	if resp.OTPExpiresAt.IsZero() {
		t.Fatal("expected expiry")
	}
	stored := h.merchants.byID[resp.Merchant.ID]
	if !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", stored.PasswordHash)
	}
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	mismatch := registerRequest()
	mismatch.ConfirmPassword = "something-else"
	if _, err := h.svc.Register(context.Background(), mismatch); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected mismatch to fail validation, got %v", err)
	}

	short := registerRequest()
	short.Password, short.ConfirmPassword = "short", "short"
	if _, err := h.svc.Register(context.Background(), short); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected short password to fail validation, got %v", err)
	}

	if _, err := h.svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := h.svc.Register(context.Background(), registerRequest()); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected duplicate email conflict, got %v", err)
	}
}

func TestVerifyOTPRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.svc.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	email := "owner@oceangrill.lk"
	good := h.sender.codes[email]
	wrong := "000000"
	if good == wrong {
		wrong = "111111"
	}

	if _, err := h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: "12345"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected five digits to be rejected, got %v", err)
	}
	if _, err := h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: wrong}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected wrong code to be rejected, got %v", err)
	}

	dto, err := h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: good})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !dto.EmailVerified {
		t.Fatal("expected merchant verified")
	}
	if _, err := h.svc.ResendOTP(ctx, ResendOTPRequest{Email: email}); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected resend after verification to conflict, got %v", err)
	}
}

func TestVerifyOTPAttemptLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.svc.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	email := "owner@oceangrill.lk"
	wrong := "000000"
	if h.sender.codes[email] == wrong {
		wrong = "111111"
	}

	for i := 0; i < 3; i++ {
		_, _ = h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: wrong})
	}
	if _, err := h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: h.sender.codes[email]}); !pkgerrors.IsCode(err, pkgerrors.CodeRateLimit) {
		t.Fatalf("expected attempts to be exhausted, got %v", err)
	}

	if _, err := h.svc.ResendOTP(ctx, ResendOTPRequest{Email: email}); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if _, err := h.svc.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: h.sender.codes[email]}); err != nil {
		t.Fatalf("fresh code should verify: %v", err)
	}
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	h := newHarness(t)
	if _, err := h.svc.Register(context.Background(), registerRequest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "owner@oceangrill.lk", Password: "correct-horse"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestLoginRefreshLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	merchant := h.registerAndVerify(t)

	if _, err := h.svc.Login(ctx, LoginRequest{Email: "owner@oceangrill.lk", Password: "wrong-password"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	login, err := h.svc.Login(ctx, LoginRequest{Email: " OWNER@oceangrill.lk ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !login.Settings.Authenticated || login.Merchant.LastLoginAt == nil {
		t.Fatalf("expected authenticated flag and last login, got %+v", login)
	}
	claims, err := pkgAuth.ParseAccessToken(h.jwtCfg, login.AccessToken)
	if err != nil || claims.MerchantID != merchant.ID {
		t.Fatalf("unexpected claims %+v %v", claims, err)
	}

	refreshed, err := h.svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}
	if _, err := h.svc.Refresh(ctx, login.AccessToken, login.RefreshToken); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("old refresh token must be retired, got %v", err)
	}

	if err := h.svc.Logout(ctx, refreshed.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	flags, _ := h.settings.Get(ctx, merchant.ID)
	if flags.Authenticated {
		t.Fatal("logout must clear the authenticated flag")
	}
	if _, err := h.svc.Refresh(ctx, refreshed.AccessToken, refreshed.RefreshToken); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected revoked session, got %v", err)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	h := newHarness(t)
	if _, err := h.svc.Refresh(context.Background(), "not-a-jwt", "whatever"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
