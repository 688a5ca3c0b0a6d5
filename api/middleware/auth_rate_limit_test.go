package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/redis"
)

func loginRequest(email, remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"`+email+`","password":"secret"}`))
	req.RemoteAddr = remote
	return req
}

func TestAuthRateLimit_AllowsUnderLimitAndKeepsBody(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	handler := AuthRateLimit(policy, redis.NewInMemory(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"tester@example.com"`) {
			t.Fatalf("unexpected body: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("tester@example.com", "1.2.3.4:5678"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRateLimit_EmailLimitTriggers(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, redis.NewInMemory(), nil)(okHandler())

	for i := 0; i < 3; i++ {
		// Case and whitespace do not open a new bucket.
		email := "blocked@example.com"
		if i == 2 {
			email = " Blocked@Example.com "
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(email, "1.2.3.4:5678"))

		if i < 2 {
			if rec.Code != http.StatusOK {
				t.Fatalf("expected success before limit, got %d", rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
			t.Fatalf("unexpected code: %s", payload.Error.Code)
		}
	}
}

func TestAuthRateLimit_IPLimitUsesForwardedFor(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, redis.NewInMemory(), nil)(okHandler())

	first := loginRequest("a@example.com", "10.0.0.1:1234")
	first.Header.Set("X-Forwarded-For", "5.6.7.8, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected success, got %d", rec.Code)
	}

	second := loginRequest("b@example.com", "10.0.0.2:1234")
	second.Header.Set("X-Forwarded-For", "5.6.7.8")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	other := loginRequest("c@example.com", "9.9.9.9:1234")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected other ip to pass, got %d", rec.Code)
	}
}

type failingLimiter struct{}

func (failingLimiter) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return false, 0, errors.New("redis down")
}

func TestAuthRateLimit_StoreFailure(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 5)
	handler := AuthRateLimit(policy, failingLimiter{}, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("x@example.com", "1.2.3.4:1"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAuthRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 1, 1)
	handler := AuthRateLimit(policy, failingLimiter{}, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("x@example.com", "1.2.3.4:1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
