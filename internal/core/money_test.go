package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"$ 50", "50"},
		{"$1.234.567,89", "1234567.89"},
		{"", "0"},
		{"   ", "0"},
		{"1.234.56", "1234.56"},  // trailing two-digit group is cents
		{"1.234.567", "1234567"}, // all periods group thousands
		{"1.234", "1.234"},       // single period parses directly
		{"€ 12,5", "12.5"},
		{"-1.234,56", "-1234.56"},
		{"abc", "0"},
		{"12,34,56", "0"},
	}
	for i, tc := range cases {
		want, err := decimal.NewFromString(tc.want)
		if err != nil {
			t.Fatalf("case %d bad fixture %q: %v", i, tc.want, err)
		}
		got := ParseAmount(tc.in)
		if !got.Equal(want) {
			t.Fatalf("case %d ParseAmount(%q) = %s, want %s", i, tc.in, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.56", "1.234,56"},
		{"50", "50,00"},
		{"0", "0,00"},
		{"1234567.8", "1.234.567,80"},
		{"0.005", "0,0050"}, // sub-cent values keep four digits
		{"-1234.56", "-1.234,56"},
		{"999", "999,00"},
		{"1000", "1.000,00"},
	}
	for i, tc := range cases {
		v, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("case %d bad fixture %q: %v", i, tc.in, err)
		}
		if got := FormatAmount(v); got != tc.want {
			t.Fatalf("case %d FormatAmount(%s) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestAmountRoundTrip(t *testing.T) {
	// parse(format(x)) must equal x for two-decimal values.
	fixtures := []string{"0", "0.01", "12.34", "999.99", "1000", "1234.56", "1234567.89"}
	for i, f := range fixtures {
		v, err := decimal.NewFromString(f)
		if err != nil {
			t.Fatalf("case %d bad fixture %q: %v", i, f, err)
		}
		back := ParseAmount(FormatAmount(v))
		if !back.Round(2).Equal(v.Round(2)) {
			t.Fatalf("case %d round trip %s -> %q -> %s", i, v, FormatAmount(v), back)
		}
	}
}
