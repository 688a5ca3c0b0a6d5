package auth

import (
	"time"

	"github.com/dealdesk/merchant-portal/internal/merchants"
	"github.com/dealdesk/merchant-portal/internal/settings"
	"github.com/dealdesk/merchant-portal/pkg/enums"
)

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	OwnerName       string             `json:"owner_name" validate:"required"`
	BusinessName    string             `json:"business_name" validate:"required"`
	Email           string             `json:"email" validate:"required,email"`
	Phone           *string            `json:"phone,omitempty"`
	Category        enums.DealCategory `json:"category,omitempty"`
	Password        string             `json:"password" validate:"required"`
	ConfirmPassword string             `json:"confirm_password" validate:"required,eqfield=Password"`
}

// RegisterResponse tells the client where the verification code went.
type RegisterResponse struct {
	Merchant     *merchants.MerchantDTO `json:"merchant"`
	OTPExpiresAt time.Time              `json:"otp_expires_at"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type OTPResponse struct {
	Email        string    `json:"email"`
	OTPExpiresAt time.Time `json:"otp_expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the token pair plus what the dashboard needs to render.
type LoginResponse struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	Merchant     *merchants.MerchantDTO `json:"merchant"`
	Settings     settings.Settings      `json:"settings"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
