package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dealdesk/merchant-portal/pkg/config"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/logger"
	redisclient "github.com/dealdesk/merchant-portal/pkg/redis"
	"github.com/dealdesk/merchant-portal/pkg/security"
)

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	OTPKey(email string) string
	OTPAttemptsKey(email string) string
}

// OTPSender delivers a verification code to the merchant.
type OTPSender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogSender writes codes to the service log; there is no mail transport.
type LogSender struct {
	Logger *logger.Logger
}

func (s LogSender) SendOTP(ctx context.Context, email, code string) error {
	if s.Logger == nil {
		return nil
	}
	ctx = s.Logger.WithFields(ctx, map[string]any{"email": email, "otp": code})
	s.Logger.Info(ctx, "auth.otp_issued")
	return nil
}

// otpIssuer stores one pending code per email with a bounded number of tries.
type otpIssuer struct {
	store  otpStore
	sender OTPSender
	cfg    config.OTPConfig
	now    func() time.Time
}

func (o *otpIssuer) issue(ctx context.Context, email string) (time.Time, error) {
	code, err := security.GenerateOTP()
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := o.store.Set(ctx, o.store.OTPKey(email), code, o.cfg.TTL); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	if err := o.store.Del(ctx, o.store.OTPAttemptsKey(email)); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset otp attempts")
	}
	if err := o.sender.SendOTP(ctx, email, code); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp")
	}
	return o.now().UTC().Add(o.cfg.TTL), nil
}

// check consumes one attempt and, on a match, deletes the pending code.
func (o *otpIssuer) check(ctx context.Context, email, code string) error {
	if !security.IsOTPFormat(code) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("code must be exactly %d digits", security.OTPLength))
	}

	attempts, err := o.store.IncrWithTTL(ctx, o.store.OTPAttemptsKey(email), o.cfg.TTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count otp attempts")
	}
	if o.cfg.MaxAttempts > 0 && attempts > int64(o.cfg.MaxAttempts) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, request a new code")
	}

	stored, err := o.store.Get(ctx, o.store.OTPKey(email))
	if err != nil {
		if redisclient.IsNil(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "code expired, request a new one")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp")
	}
	if !security.OTPEqual(stored, code) {
		return pkgerrors.New(pkgerrors.CodeValidation, "incorrect code")
	}

	if err := o.store.Del(ctx, o.store.OTPKey(email), o.store.OTPAttemptsKey(email)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear otp")
	}
	return nil
}
