// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cbudget/internal/config"
)

// FormatMoney formats an amount with the currency symbol and thousands separators.
// e.g., 1234567.5 USD -> "$1,234,567.50", -42 INR -> "-₹42.00"
func FormatMoney(amount decimal.Decimal, cur config.Currency) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(cur.Places)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = FormatNumber(n)
	}
	if frac != "" {
		whole += "." + frac
	}
	return sign + cur.Symbol + whole
}

// FormatMoneyShort formats large amounts compactly for narrow columns.
// e.g., 1234 -> "$1.2K", 99600 -> "$99.6K"
func FormatMoneyShort(amount decimal.Decimal, cur config.Currency) string {
	f := amount.Abs().InexactFloat64()
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}

	switch {
	case f >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, cur.Symbol, f/1_000_000)
	case f >= 10_000:
		return fmt.Sprintf("%s%s%.1fK", sign, cur.Symbol, f/1_000)
	default:
		return FormatMoney(amount, cur)
	}
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

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(delta decimal.Decimal, cur config.Currency) string {
	if delta.IsNegative() {
		return FormatMoney(delta, cur)
	}
	return "+" + FormatMoney(delta, cur)
}

// FormatDaysLeft describes a goal deadline relative to today.
func FormatDaysLeft(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%dd overdue", -days)
	case days == 0:
		return "due today"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// ParseMoney parses a user-entered amount. Thousands separators and a leading
// currency symbol are ignored: "$1,234.50" -> 1234.50.
func ParseMoney(raw string, cur config.Currency) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	s = strings.TrimSpace(strings.TrimPrefix(s, strings.TrimSpace(cur.Symbol)))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return d, nil
}
