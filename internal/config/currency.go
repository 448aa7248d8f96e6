package config

import "strings"

// Currency describes how amounts are displayed. No conversion is ever done.
type Currency struct {
	Code   string
	Symbol string
	// Places is the number of decimals shown.
	Places int32
}

// DefaultCurrencies maps ISO codes to display settings.
var DefaultCurrencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Places: 2},
	"EUR": {Code: "EUR", Symbol: "€", Places: 2},
	"GBP": {Code: "GBP", Symbol: "£", Places: 2},
	"INR": {Code: "INR", Symbol: "₹", Places: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Places: 0},
	"CAD": {Code: "CAD", Symbol: "CA$", Places: 2},
	"AUD": {Code: "AUD", Symbol: "A$", Places: 2},
}

// CurrencyCodes returns the known codes in display order.
func CurrencyCodes() []string {
	return []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}
}

// NormalizeCurrencyCode upper-cases and trims a code, mapping a bare symbol
// back to its code when one matches.
// e.g., " inr " -> "INR", "₹" -> "INR"
func NormalizeCurrencyCode(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := DefaultCurrencies[code]; ok {
		return code
	}
	for _, c := range DefaultCurrencies {
		if c.Symbol == strings.TrimSpace(raw) {
			return c.Code
		}
	}
	return code
}

// LookupCurrency returns display settings for a code. Unknown codes are shown
// with the code itself as the prefix and two decimals.
func LookupCurrency(raw string) Currency {
	code := NormalizeCurrencyCode(raw)
	if c, ok := DefaultCurrencies[code]; ok {
		return c
	}
	if code == "" {
		return DefaultCurrencies["USD"]
	}
	return Currency{Code: code, Symbol: code + " ", Places: 2}
}
