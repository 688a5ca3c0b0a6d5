package security

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in an email verification code.
const OTPLength = 6

// GenerateOTP returns a uniformly random zero-padded numeric code.
func GenerateOTP() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n.Int64()), nil
}

// IsOTPFormat reports whether code is exactly six ASCII digits.
func IsOTPFormat(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// OTPEqual compares two codes in constant time.
func OTPEqual(expected, provided string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
