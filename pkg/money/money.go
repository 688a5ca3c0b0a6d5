package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency is the display prefix for every amount on the dashboard.
const Currency = "LKR"

var printer = message.NewPrinter(language.English)

// FormatLKR renders a whole-rupee amount as "LKR 183,800". Display only.
func FormatLKR(amount int64) string {
	return printer.Sprintf("%s %d", Currency, amount)
}

// FormatNumber groups thousands without a currency, e.g. "1,240".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatDecimal renders a price with two decimals, e.g. "LKR 2,450.50".
func FormatDecimal(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	wholeValue, err := decimal.NewFromString(whole)
	if err != nil {
		return Currency + " " + amount.StringFixed(2)
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return printer.Sprintf("%s %s%d.%s", Currency, sign, wholeValue.IntPart(), frac)
}
