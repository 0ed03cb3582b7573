package csvparse

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a free-form monetary string ("$1,234.56", "42.5") to
// integer cents. Malformed or empty input yields 0 rather than an error.
func ParseMoney(raw string) int64 {
	return toCents(stripMoney(raw, false))
}

// ParseSignedAmount is ParseMoney plus accounting notation: a parenthesized
// value is negative, e.g. "(12.34)" -> -1234. Used by the CSV parser, where
// ledger amounts carry sign before being split into type+magnitude.
func ParseSignedAmount(raw string) int64 {
	cleaned := stripMoney(raw, true)
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.Trim(cleaned, "()")
	}
	return toCents(cleaned)
}

// stripMoney removes everything except digits, '.', '-', and optionally
// parentheses.
func stripMoney(raw string, keepParens bool) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case keepParens && (r == '(' || r == ')'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toCents(cleaned string) int64 {
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
