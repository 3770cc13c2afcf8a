// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrBadAmount is returned by ParseAmount for input that is not a
// non-negative number.
var ErrBadAmount = errors.New("amount must be a non-negative number")

// FormatMoney formats an amount with the currency symbol, thousands
// separators and two decimals.
// e.g., ("₹", 1234.5) -> "₹1,234.50"
func FormatMoney(symbol string, amount float64) string {
	return FormatDecimal(symbol, decimal.NewFromFloat(amount))
}

// FormatDecimal is FormatMoney for an exact decimal amount.
func FormatDecimal(symbol string, d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + symbol + fixed
	}
	return sign + symbol + FormatNumber(n) + "." + frac
}

// ParseAmount parses user input such as "950", "1,200.50" or "₹40" into
// an amount. The currency symbol and separators are ignored.
func ParseAmount(symbol, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if symbol != "" {
		s = strings.TrimPrefix(s, symbol)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, ErrBadAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}
	return d.InexactFloat64(), nil
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatCoord formats a latitude/longitude pair with four decimals.
func FormatCoord(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// MaskKey hides all but the first and last four characters of a secret.
func MaskKey(key string) string {
	if len(key) > 12 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}

// Truncate shortens s to at most n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
