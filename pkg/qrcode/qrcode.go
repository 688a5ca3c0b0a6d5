package qrcode

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

const (
	MinSize     = 128
	MaxSize     = 1024
	DefaultSize = 256
)

var (
	ErrInvalidPayload = errors.New("qr payload is not a coupon code")
	ErrInvalidSize    = fmt.Errorf("size must be between %d and %d", MinSize, MaxSize)
	ErrInvalidLevel   = errors.New("level must be: low, medium, high, or highest")

	codeRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{4,30}[A-Z0-9]$`)
)

// Codec renders coupon codes as scannable payloads and reads them back.
type Codec struct {
	scheme string
}

// NewCodec uses scheme as the payload prefix, e.g. "dealdesk://redeem/".
func NewCodec(scheme string) Codec {
	return Codec{scheme: strings.TrimSpace(scheme)}
}

// Payload is the text encoded in the QR image for code.
func (c Codec) Payload(code string) string {
	return c.scheme + NormalizeCode(code)
}

// PNG encodes code's payload at size pixels square.
func (c Codec) PNG(code string, size int, level qr.RecoveryLevel) ([]byte, error) {
	if size < MinSize || size > MaxSize {
		return nil, ErrInvalidSize
	}
	normalized := NormalizeCode(code)
	if !codeRe.MatchString(normalized) {
		return nil, ErrInvalidPayload
	}
	png, err := qr.Encode(c.Payload(normalized), level, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Decode extracts the coupon code from scanned text. Both the full scheme
// payload and a bare code typed by the cashier are accepted.
func (c Codec) Decode(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if c.scheme != "" && len(value) >= len(c.scheme) && strings.EqualFold(value[:len(c.scheme)], c.scheme) {
		value = value[len(c.scheme):]
	} else if strings.Contains(value, "://") {
		return "", ErrInvalidPayload
	}
	code := NormalizeCode(strings.Trim(value, "/"))
	if !codeRe.MatchString(code) {
		return "", ErrInvalidPayload
	}
	return code, nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseLevel maps a query value to a recovery level; blank means medium.
func ParseLevel(value string) (qr.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "medium":
		return qr.Medium, nil
	case "low":
		return qr.Low, nil
	case "high":
		return qr.High, nil
	case "highest":
		return qr.Highest, nil
	default:
		return qr.Medium, ErrInvalidLevel
	}
}
