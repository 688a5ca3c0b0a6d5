package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/internal/settings"
	pkgAuth "github.com/dealdesk/merchant-portal/pkg/auth"
	"github.com/dealdesk/merchant-portal/pkg/auth/session"
	"github.com/dealdesk/merchant-portal/pkg/config"
	"github.com/dealdesk/merchant-portal/pkg/db"
	"github.com/dealdesk/merchant-portal/pkg/db/models"
	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/latency"
	"github.com/dealdesk/merchant-portal/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service covers the sign-up, verification and sign-in screens.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*merchants.MerchantDTO, error)
	ResendOTP(ctx context.Context, req ResendOTPRequest) (*OTPResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*RefreshResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

type merchantRepository interface {
	Create(ctx context.Context, dto merchants.CreateMerchantDTO) (*models.Merchant, error)
	FindByEmail(ctx context.Context, email string) (*models.Merchant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, merchantID string) (session.Issued, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Issued, error)
	Revoke(ctx context.Context, accessID string) error
}

type authFlags interface {
	Get(ctx context.Context, merchantID uuid.UUID) (settings.Settings, error)
	SetAuthenticated(ctx context.Context, merchantID uuid.UUID, authenticated bool) error
}

// ServiceParams bundles the dependencies of the auth service.
type ServiceParams struct {
	Merchants      merchantRepository
	SessionManager sessionManager
	Settings       authFlags
	OTPStore       otpStore
	OTPSender      OTPSender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	OTPConfig      config.OTPConfig
	Latency        latency.Simulator
}

type service struct {
	merchants   merchantRepository
	session     sessionManager
	settings    authFlags
	otp         *otpIssuer
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	latency     latency.Simulator
	now         func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Merchants == nil {
		return nil, fmt.Errorf("merchant repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	if params.OTPStore == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if params.OTPConfig.TTL <= 0 {
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	sender := params.OTPSender
	if sender == nil {
		sender = LogSender{}
	}
	s := &service{
		merchants:   params.Merchants,
		session:     params.SessionManager,
		settings:    params.Settings,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		latency:     params.Latency,
		now:         time.Now,
	}
	s.otp = &otpIssuer{store: params.OTPStore, sender: sender, cfg: params.OTPConfig, now: func() time.Time { return s.now() }}
	return s, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if req.Password != req.ConfirmPassword {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}
	if minLen := s.passwordCfg.MinLength; minLen > 0 && len(req.Password) < minLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minLen))
	}
	if req.Category != "" && !req.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	merchant, err := s.merchants.Create(ctx, merchants.CreateMerchantDTO{
		Email:        email,
		PasswordHash: hash,
		OwnerName:    strings.TrimSpace(req.OwnerName),
		BusinessName: strings.TrimSpace(req.BusinessName),
		Phone:        req.Phone,
		Category:     req.Category,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create merchant")
	}

	expires, err := s.otp.issue(ctx, email)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{Merchant: merchants.FromModel(merchant), OTPExpiresAt: expires}, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*merchants.MerchantDTO, error) {
	email := normalizeEmail(req.Email)
	merchant, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if merchant.EmailVerified {
		return merchants.FromModel(merchant), nil
	}
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}
	if err := s.otp.check(ctx, email, strings.TrimSpace(req.Code)); err != nil {
		return nil, err
	}
	if err := s.merchants.MarkEmailVerified(ctx, merchant.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark email verified")
	}
	merchant.EmailVerified = true
	return merchants.FromModel(merchant), nil
}

func (s *service) ResendOTP(ctx context.Context, req ResendOTPRequest) (*OTPResponse, error) {
	email := normalizeEmail(req.Email)
	merchant, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if merchant.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "email already verified")
	}
	expires, err := s.otp.issue(ctx, email)
	if err != nil {
		return nil, err
	}
	return &OTPResponse{Email: email, OTPExpiresAt: expires}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}
	merchant, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if !merchant.EmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "email not verified")
	}

	now := s.now().UTC()
	issued, err := s.session.Generate(ctx, merchant.ID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		MerchantID:    merchant.ID,
		Email:         merchant.Email,
		EmailVerified: merchant.EmailVerified,
		JTI:           issued.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	if err := s.merchants.UpdateLastLogin(ctx, merchant.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
	}
	merchant.LastLoginAt = &now
	if err := s.settings.SetAuthenticated(ctx, merchant.ID, true); err != nil {
		return nil, err
	}
	current, err := s.settings.Get(ctx, merchant.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: issued.RefreshToken,
		Merchant:     merchants.FromModel(merchant),
		Settings:     current,
	}, nil
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	issued, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}
	if issued.MerchantID != claims.MerchantID.String() {
		_ = s.session.Revoke(ctx, issued.AccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	merchant, err := s.merchants.FindByID(ctx, claims.MerchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		MerchantID:    merchant.ID,
		Email:         merchant.Email,
		EmailVerified: merchant.EmailVerified,
		JTI:           issued.AccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &RefreshResponse{AccessToken: token, RefreshToken: issued.RefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return s.settings.SetAuthenticated(ctx, claims.MerchantID, false)
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Merchant, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	merchant, err := s.merchants.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	ok, err := security.VerifyPassword(password, merchant.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return merchant, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	merchant, err := s.merchants.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no account for this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant")
	}
	return merchant, nil
}
