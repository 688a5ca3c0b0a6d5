package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is what a caller supplies when minting a token.
type AccessTokenPayload struct {
	MerchantID    uuid.UUID
	Email         string
	EmailVerified bool
	JTI           string
}

// AccessTokenClaims is the typed JWT handed to the dashboard.
type AccessTokenClaims struct {
	MerchantID    uuid.UUID `json:"merchant_id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	jwt.RegisteredClaims
}
