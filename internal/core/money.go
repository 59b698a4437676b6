// Package core holds the domain model and the installment engine: money
// normalization, due-month scheduling, paid-month reconciliation and the
// pending payment calendar.
//
// This file converts between free-form localized amount text and exact
// decimal values. Input text may use either "." or "," as decimal point or
// thousands mark; output always uses "." for grouping and "," for decimals.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts amount text to an exact decimal value.
//
// Accepted forms include plain numbers ("1234.56"), a leading currency
// symbol ("$ 50"), comma decimals ("1234,56") and mixed separator styles
// ("1.234,56", "1.234.56"). Malformed text normalizes to zero; the caller
// never sees an error.
//
// Disambiguation, applied in order:
//  1. strip currency symbol and whitespace; empty text is zero
//  2. text that already parses as a decimal is taken as-is
//  3. comma without period: comma is the decimal point
//  4. periods only: with two or more periods, the last one is the decimal
//     point when its group has exactly two digits, otherwise every period
//     is a grouping mark; a single period is the decimal point
//  5. both present: periods group thousands, the comma is the decimal point
func ParseAmount(text string) decimal.Decimal {
	s := stripCurrency(text)
	if s == "" {
		return decimal.Zero
	}

	if v, err := decimal.NewFromString(s); err == nil {
		return v
	}

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")

	switch {
	case hasComma && !hasPeriod:
		s = strings.Replace(s, ",", ".", 1)
	case hasPeriod && !hasComma:
		if strings.Count(s, ".") >= 2 {
			last := strings.LastIndex(s, ".")
			if len(s)-last-1 == 2 {
				s = strings.ReplaceAll(s[:last], ".", "") + "." + s[last+1:]
			} else {
				s = strings.ReplaceAll(s, ".", "")
			}
		}
	case hasComma && hasPeriod:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// FormatAmount renders a decimal with "." as the thousands separator and ","
// as the decimal separator, two fractional digits. Non-zero magnitudes under
// one cent get four fractional digits so they stay visible.
func FormatAmount(v decimal.Decimal) string {
	neg := v.IsNegative()
	abs := v.Abs()

	places := int32(2)
	if abs.IsPositive() && abs.LessThan(decimal.New(1, -2)) {
		places = 4
	}

	fixed := abs.StringFixed(places)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	out := groupThousands(intPart) + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// stripCurrency removes currency symbols and all whitespace.
func stripCurrency(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', ' ', '$', '€', '£', '₹':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// groupThousands inserts "." every three digits, right to left.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
