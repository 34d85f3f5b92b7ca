package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedPrice = errors.New("malformed price")

// ParseCents converts a decimal currency string ("4.99", "12", "0.5")
// into integer cents. At most two fractional digits are accepted;
// anything beyond that is a caller error, not something to round away.
func ParseCents(price string) (int64, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return 0, ErrMalformedPrice
	}

	negative := false
	if strings.HasPrefix(price, "-") {
		negative = true
		price = price[1:]
	}

	whole, frac, _ := strings.Cut(price, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two fractional digits", ErrMalformedPrice, price)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, price)
	}
	centsPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, price)
	}

	cents := dollars*100 + centsPart
	if negative {
		cents = -cents
	}
	return cents, nil
}

// FormatCents renders integer cents as a plain decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ScaleCents multiplies cents by rate basis points and rounds the
// result half-to-even. Used for the tax line, the only place a
// division can leave a fractional cent.
func ScaleCents(cents int64, basisPoints int64) int64 {
	product := cents * basisPoints
	quotient := product / 10000
	remainder := product % 10000

	if remainder < 0 {
		remainder = -remainder
	}
	double := remainder * 2
	switch {
	case double < 10000:
		// round down, nothing to do
	case double > 10000:
		quotient += sign(product)
	default:
		// exactly half a cent: round to even
		if quotient%2 != 0 {
			quotient += sign(product)
		}
	}
	return quotient
}

func sign(v int64) int64 {
	if v < 0 {
		return -1
	}
	return 1
}
