package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/auth"
	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/google/uuid"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "merchant-portal", ExpirationMinutes: 60}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, merchantID uuid.UUID, jti string) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		MerchantID:    merchantID,
		Email:         "owner@oceangrill.lk",
		EmailVerified: true,
		JTI:           jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, testJWT, uuid.New(), "jti-1")

	for name, verifier := range map[string]stubSessionVerifier{
		"revoked": {ok: false},
		"redis":   {err: errors.New("connection refused")},
	} {
		handler := Auth(testJWT, verifier, nil)(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		want := http.StatusUnauthorized
		if name == "redis" {
			want = http.StatusServiceUnavailable
		}
		if resp.Code != want {
			t.Fatalf("%s: expected %d got %d", name, want, resp.Code)
		}
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	merchantID := uuid.New()
	token := mintTestToken(t, testJWT, merchantID, "jti-42")

	var (
		gotMerchant uuid.UUID
		gotAccess   string
	)
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMerchant, _ = MerchantIDFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotMerchant != merchantID {
		t.Fatalf("expected merchant %s got %s", merchantID, gotMerchant)
	}
	if gotAccess != "jti-42" {
		t.Fatalf("expected access id jti-42 got %q", gotAccess)
	}
}
