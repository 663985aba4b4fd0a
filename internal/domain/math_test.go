package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmountValid(t *testing.T) {
	d, err := ParseAmount("1.5")
	if err != nil {
		t.Fatalf("ParseAmount(1.5) error = %v", err)
	}
	if !d.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("ParseAmount(1.5) = %v", d)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1.2.3"} {
		if _, err := ParseAmount(input); err == nil {
			t.Errorf("ParseAmount(%q) expected error", input)
		}
	}
}

func TestSafeParseInvalidIsZero(t *testing.T) {
	if !SafeParse("not-a-number").IsZero() {
		t.Error("SafeParse of garbage should be zero")
	}
	if !SafeParse("").IsZero() {
		t.Error("SafeParse of empty should be zero")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.5000000", "1.5"},
		{"0.0000001", "0"},
		{"199.995", "199.995"},
		{"2", "2"},
		{"0.1234567", "0.123457"},
	}
	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.input))
		if got != tt.want {
			t.Errorf("FormatAmount(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestTokenByMint(t *testing.T) {
	tok, ok := TokenByMint(SOLMint)
	if !ok || tok.Symbol != "SOL" {
		t.Errorf("TokenByMint(SOLMint) = %+v, %v", tok, ok)
	}
	if _, ok := TokenByMint("unknown"); ok {
		t.Error("TokenByMint(unknown) should not be found")
	}
}
