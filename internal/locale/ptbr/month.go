package ptbr

import (
	"strings"
	"time"
)

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthAbbreviations are the folded three-letter forms, January first.
var MonthAbbreviations = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// MonthName returns the canonical Portuguese name for m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthNames returns the twelve canonical month names.
func MonthNames() []string {
	out := make([]string, len(monthNames))
	copy(out, monthNames[:])
	return out
}

// ParseMonth maps an abbreviation ("SET", "mar") or a full name, in any
// case and with or without accents, to its month.
func ParseMonth(s string) (time.Month, bool) {
	key := Fold(strings.TrimSpace(s))
	if len(key) < 3 {
		return 0, false
	}
	for i, name := range monthNames {
		full := Fold(name)
		if key == MonthAbbreviations[i] || strings.HasPrefix(full, key) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// NormalizeMonth returns the canonical month name for s. Input that is
// not a month is title-cased and returned unchanged.
func NormalizeMonth(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m, ok := ParseMonth(s); ok {
		return MonthName(m)
	}
	return TitleCase(s)
}

// IsCanonicalMonth returns true if s is exactly one of the twelve names.
func IsCanonicalMonth(s string) bool {
	for _, name := range monthNames {
		if s == name {
			return true
		}
	}
	return false
}
