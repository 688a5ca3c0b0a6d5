package enums

import "fmt"

// CouponStatus is the lifecycle of a single purchased coupon.
type CouponStatus string

const (
	CouponStatusPurchased CouponStatus = "purchased"
	CouponStatusRedeemed  CouponStatus = "redeemed"
	CouponStatusExpired   CouponStatus = "expired"
)

var validCouponStatuses = []CouponStatus{
	CouponStatusPurchased,
	CouponStatusRedeemed,
	CouponStatusExpired,
}

func (s CouponStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CouponStatus.
func (s CouponStatus) IsValid() bool {
	for _, candidate := range validCouponStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseCouponStatus(value string) (CouponStatus, error) {
	for _, candidate := range validCouponStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon status %q", value)
}
