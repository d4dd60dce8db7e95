package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// EtherDecimals is the number of decimals between wei and ether.
const EtherDecimals = 18

// ErrInvalidAmount is returned for strings that are not plain decimal numbers
// or that carry more fractional digits than the unit allows.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseEther converts a decimal ether string to wei without rounding.
func ParseEther(s string) (*big.Int, error) {
	return ParseUnits(s, EtherDecimals)
}

// FormatEther renders wei as a decimal ether string ("0.05", "1.0").
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// ParseUnits converts a decimal string such as "1.25" or ".5" into an integer
// scaled by 10^decimals. Exponents, fractions and surplus precision are rejected.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("%w: negative decimals %d", ErrInvalidAmount, decimals)
	}
	v := strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(v, "-") {
		neg = true
		v = v[1:]
	}

	whole, frac, _ := strings.Cut(v, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	frac = strings.TrimRight(frac, "0")
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, s, decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if neg {
		n.Neg(n)
	}
	return n, nil
}

// FormatUnits renders v scaled down by 10^decimals, trimming trailing zeros
// but always keeping one fractional digit.
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0.0"
	}
	if decimals <= 0 {
		return v.String() + ".0"
	}
	abs := new(big.Int).Abs(v)
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, rem := new(big.Int).QuoRem(abs, base, new(big.Int))

	frac := rem.String()
	frac = strings.Repeat("0", decimals-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	sign := ""
	if v.Sign() < 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + frac
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
