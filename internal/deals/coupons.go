package deals

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	couponCodePrefix = "DD-"
	couponCodeLength = 8
	// no 0/O or 1/I so codes survive being read aloud at the counter
	couponAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewCouponCode returns a random code such as DD-7KQ4MZ2P.
func NewCouponCode() (string, error) {
	buf := make([]byte, couponCodeLength)
	size := big.NewInt(int64(len(couponAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("generate coupon code: %w", err)
		}
		buf[i] = couponAlphabet[n.Int64()]
	}
	return couponCodePrefix + string(buf), nil
}

func newCouponCodes(n int) ([]string, error) {
	seen := make(map[string]struct{}, n)
	codes := make([]string, 0, n)
	for len(codes) < n {
		code, err := NewCouponCode()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}
