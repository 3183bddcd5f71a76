package units

import (
	"math/big"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
	}{
		{name: "whole and fraction", amount: "100.50", decimals: 6, want: "100500000"},
		{name: "zero", amount: "0", decimals: 18, want: "0"},
		{name: "zero with fraction", amount: "0.0", decimals: 0, want: "0"},
		{name: "integer", amount: "1", decimals: 6, want: "1000000"},
		{name: "zero decimals", amount: "42", decimals: 0, want: "42"},
		{name: "full precision", amount: "0.000001", decimals: 6, want: "1"},
		{name: "leading dot", amount: ".5", decimals: 2, want: "50"},
		{name: "trailing dot", amount: "5.", decimals: 2, want: "500"},
		{name: "trailing zeros beyond precision", amount: "1.5000000", decimals: 6, want: "1500000"},
		{name: "large value", amount: "123456789.123456789", decimals: 18, want: "123456789123456789000000000"},
		{name: "whitespace", amount: " 2.5 ", decimals: 1, want: "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.amount, tt.decimals)
			if err != nil {
				t.Fatalf("Parse(%q, %d) returned error: %v", tt.amount, tt.decimals, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q, %d) = %s, want %s", tt.amount, tt.decimals, got.String(), tt.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		wantErr  string
	}{
		{name: "excess precision", amount: "1.0000001", decimals: 6, wantErr: "decimal places"},
		{name: "negative", amount: "-1", decimals: 6, wantErr: "negative"},
		{name: "empty", amount: "", decimals: 6, wantErr: "empty"},
		{name: "not a number", amount: "abc", decimals: 6, wantErr: "invalid"},
		{name: "two dots", amount: "1.2.3", decimals: 6, wantErr: "invalid"},
		{name: "lone dot", amount: ".", decimals: 6, wantErr: "invalid"},
		{name: "exponent", amount: "1e6", decimals: 6, wantErr: "invalid"},
		{name: "hex digits", amount: "0x10", decimals: 6, wantErr: "invalid"},
		{name: "negative decimals", amount: "1", decimals: -1, wantErr: "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.amount, tt.decimals)
			if err == nil {
				t.Fatalf("Parse(%q, %d) expected error, got none", tt.amount, tt.decimals)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse(%q, %d) error = %q, want it to mention %q", tt.amount, tt.decimals, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseIsExact(t *testing.T) {
	// A value that is not representable in float64 must survive unchanged.
	got, err := Parse("0.123456789012345678", 18)
	if err != nil {
		t.Fatal(err)
	}
	want := "123456789012345678"
	if got.String() != want {
		t.Errorf("Parse lost precision: got %s, want %s", got.String(), want)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals int
		want     string
	}{
		{name: "round trip", value: "100500000", decimals: 6, want: "100.5"},
		{name: "whole", value: "1000000", decimals: 6, want: "1"},
		{name: "sub unit", value: "1", decimals: 6, want: "0.000001"},
		{name: "zero", value: "0", decimals: 18, want: "0"},
		{name: "zero decimals", value: "42", decimals: 0, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := new(big.Int).SetString(tt.value, 10)
			if !ok {
				t.Fatalf("bad test value %q", tt.value)
			}
			if got := Format(v, tt.decimals); got != tt.want {
				t.Errorf("Format(%s, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}

	if got := Format(nil, 6); got != "0" {
		t.Errorf("Format(nil) = %q, want \"0\"", got)
	}
}
