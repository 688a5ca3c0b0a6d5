package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatLKR(t *testing.T) {
	cases := map[int64]string{
		183800:  "LKR 183,800",
		0:       "LKR 0",
		999:     "LKR 999",
		1250000: "LKR 1,250,000",
		-4200:   "LKR -4,200",
	}
	for in, want := range cases {
		if got := FormatLKR(in); got != want {
			t.Fatalf("FormatLKR(%d)=%q, want %q", in, got, want)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	cases := map[string]string{
		"2450.5": "LKR 2,450.50",
		"1500":   "LKR 1,500.00",
		"0.99":   "LKR 0.99",
		"-12000": "LKR -12,000.00",
	}
	for in, want := range cases {
		if got := FormatDecimal(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatDecimal(%s)=%q, want %q", in, got, want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1240); got != "1,240" {
		t.Fatalf("unexpected %q", got)
	}
}
