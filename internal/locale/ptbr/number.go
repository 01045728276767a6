package ptbr

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^\d,.]`)

// ParseNumber reads a Brazilian-formatted number: "." groups thousands and
// "," separates decimals, so "1.234,56" is 1234.56. Characters other than
// digits and separators are dropped first, which makes "R$ 189,13" and
// "-12" parse too (the sign is lost). Input without digits, or with more
// than one decimal comma, is rejected.
func ParseNumber(s string) (decimal.Decimal, bool) {
	clean := nonNumeric.ReplaceAllString(s, "")
	if !strings.ContainsAny(clean, "0123456789") {
		return decimal.Zero, false
	}
	if strings.Count(clean, ",") > 1 {
		return decimal.Zero, false
	}

	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.Replace(clean, ",", ".", 1)
	if strings.HasPrefix(clean, ".") {
		clean = "0" + clean
	}
	clean = strings.TrimSuffix(clean, ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Number is ParseNumber returning zero on failure.
func Number(s string) decimal.Decimal {
	d, _ := ParseNumber(s)
	return d
}
