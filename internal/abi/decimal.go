package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// Decimal is an exact fixed-point value equal to Int / 10^Scale
type Decimal struct {
	Int   *big.Int
	Scale int
}

// ParseDecimal parses a plain decimal string such as "110.75" or "-3"
func ParseDecimal(s string) (Decimal, error) {
	value := strings.TrimSpace(s)
	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	integer, fraction, hasPoint := strings.Cut(value, ".")
	if integer == "" || (hasPoint && fraction == "") {
		return Decimal{}, fmt.Errorf("%w: %q", domain.ErrMalformedDecimal, s)
	}
	if !isDecimalDigits(integer) || !isDecimalDigits(fraction) {
		return Decimal{}, fmt.Errorf("%w: %q", domain.ErrMalformedDecimal, s)
	}

	n, ok := new(big.Int).SetString(integer+fraction, 10)
	if !ok {
		return Decimal{}, fmt.Errorf("%w: %q", domain.ErrMalformedDecimal, s)
	}
	if negative {
		n.Neg(n)
	}
	return Decimal{Int: n, Scale: len(fraction)}, nil
}

// String renders the decimal with exactly Scale fractional digits
func (d Decimal) String() string {
	return formatScaled(d.Int, d.Scale)
}

// Rescale returns the same value expressed with a larger scale
func (d Decimal) Rescale(scale int) Decimal {
	if scale <= d.Scale {
		return d
	}
	factor := pow10(scale - d.Scale)
	return Decimal{Int: new(big.Int).Mul(d.Int, factor), Scale: scale}
}

// Add returns d + other at the larger of the two scales
func (d Decimal) Add(other Decimal) Decimal {
	scale := max(d.Scale, other.Scale)
	a, b := d.Rescale(scale), other.Rescale(scale)
	return Decimal{Int: new(big.Int).Add(a.Int, b.Int), Scale: scale}
}

// Cmp compares two decimals and returns -1, 0 or +1
func (d Decimal) Cmp(other Decimal) int {
	scale := max(d.Scale, other.Scale)
	return d.Rescale(scale).Int.Cmp(other.Rescale(scale).Int)
}

// AddDecimal adds two decimal strings exactly
func AddDecimal(a, b string) (string, error) {
	return SumDecimals([]string{a, b})
}

// SumDecimals adds decimal strings exactly. The empty sum is "0".
func SumDecimals(values []string) (string, error) {
	sum := Decimal{Int: new(big.Int)}
	for _, v := range values {
		d, err := ParseDecimal(v)
		if err != nil {
			return "", err
		}
		sum = sum.Add(d)
	}
	return sum.String(), nil
}

// CompareDecimal compares two decimal strings
func CompareDecimal(a, b string) (int, error) {
	da, err := ParseDecimal(a)
	if err != nil {
		return 0, err
	}
	db, err := ParseDecimal(b)
	if err != nil {
		return 0, err
	}
	return da.Cmp(db), nil
}

func isDecimalDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
