package ptbr

import (
	"regexp"
	"strconv"
)

var (
	fullDate  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	shortDate = regexp.MustCompile(`^\d{2}/\d{2}$`)
	tokenSep  = regexp.MustCompile(`[\s,;-]+`)
)

// FullDatePattern is the textual pattern of a dd/mm/yyyy date, for
// embedding in larger expressions.
const FullDatePattern = `\d{2}/\d{2}/\d{4}`

// FirstFullDate returns the first dd/mm/yyyy date in s. Day and month are
// not checked against the calendar.
func FirstFullDate(s string) (string, bool) {
	d := fullDate.FindString(s)
	return d, d != ""
}

// FullDates returns every dd/mm/yyyy date in s, in order.
func FullDates(s string) []string {
	return fullDate.FindAllString(s, -1)
}

// IsShortDate returns true if token is exactly dd/mm.
func IsShortDate(token string) bool {
	return shortDate.MatchString(token)
}

// Tokens splits a line on whitespace, commas, semicolons and hyphens.
func Tokens(line string) []string {
	var out []string
	for _, tok := range tokenSep.Split(line, -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// ExpandYear turns a two-digit year into 20yy. Other values pass through.
func ExpandYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0, false
	}
	if len(s) == 2 {
		y += 2000
	}
	return y, true
}
