// Package units converts human decimal amounts to fixed-point token units.
//
// Conversion is exact: the parser works on the decimal string directly and
// never goes through a float, so any value representable at the requested
// precision survives unchanged. Input with more fractional digits than the
// precision allows is rejected rather than truncated.
package units

import (
	"fmt"
	"math/big"
	"strings"
)

var pow10 = big.NewInt(10)

// Parse converts a decimal string (e.g. "100.50") into an unsigned integer
// scaled by 10^decimals. It rejects negative, malformed, and excess-precision
// input.
func Parse(amount string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be non-negative, got %d", decimals)
	}

	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("amount must not be negative: %q", amount)
	}
	s = strings.TrimPrefix(s, "+")

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return nil, fmt.Errorf("invalid decimal amount: %q", amount)
		}
	}
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("invalid decimal amount: %q", amount)
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return nil, fmt.Errorf("invalid decimal amount: %q", amount)
	}
	if len(fracPart) > decimals {
		// Trailing zeros beyond the precision are still exact.
		if strings.Trim(fracPart[decimals:], "0") != "" {
			return nil, fmt.Errorf("amount %q has more than %d decimal places", amount, decimals)
		}
		fracPart = fracPart[:decimals]
	}

	// value = intPart * 10^decimals + fracPart padded to `decimals` digits
	digits := intPart + fracPart + strings.Repeat("0", decimals-len(fracPart))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount: %q", amount)
	}
	return v, nil
}

// Format renders fixed-point units back into a decimal string. Inverse of
// Parse for canonical input; trailing fractional zeros are trimmed.
func Format(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	if decimals <= 0 {
		return v.String()
	}

	scale := new(big.Int).Exp(pow10, big.NewInt(int64(decimals)), nil)
	q, r := new(big.Int).QuoRem(new(big.Int).Abs(v), scale, new(big.Int))

	out := q.String()
	if r.Sign() != 0 {
		frac := fmt.Sprintf("%0*s", decimals, r.String())
		frac = strings.TrimRight(frac, "0")
		out += "." + frac
	}
	if v.Sign() < 0 {
		out = "-" + out
	}
	return out
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
