package security_test

import (
	"testing"

	"github.com/dealdesk/merchant-portal/pkg/security"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := security.GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if !security.IsOTPFormat(code) {
			t.Fatalf("generated code %q is not six digits", code)
		}
	}
}

func TestIsOTPFormat(t *testing.T) {
	cases := map[string]bool{
		"123456":  true,
		"000001":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		"":        false,
		"12 456":  false,
	}
	for code, want := range cases {
		if got := security.IsOTPFormat(code); got != want {
			t.Fatalf("IsOTPFormat(%q)=%v, want %v", code, got, want)
		}
	}
}

func TestOTPEqual(t *testing.T) {
	if !security.OTPEqual("482913", "482913") {
		t.Fatal("identical codes should match")
	}
	if security.OTPEqual("482913", "482914") {
		t.Fatal("different codes must not match")
	}
}
