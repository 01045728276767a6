package cemig

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/extractors"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

const (
	abbrGroup = `(jan|fev|mar|abr|mai|jun|jul|ago|set|out|nov|dez)`
	fullGroup = `(janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)`
)

var (
	headerPeriod = regexp.MustCompile(abbrGroup + `/(\d{4})`)
	referenteA   = regexp.MustCompile(`referente\s+a\s+([a-z]+)\s*/\s*(\d{4})`)

	monthYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:^|[^a-z])` + fullGroup + `\s+de\s+(\d{4})`),
		regexp.MustCompile(`(?:^|[^a-z])` + fullGroup + `\s*[/-]?\s*(\d{4})`),
	}
	monthWord = regexp.MustCompile(`(?:^|[^a-z])` + fullGroup + `(?:[^a-z]|$)`)
	abbrWord  = regexp.MustCompile(`(?:^|[^a-z])` + abbrGroup + `(?:[^a-z]|$)`)
	yearToken = regexp.MustCompile(`(?:^|\D)(20\d{2})(?:\D|$)`)

	abbrSlashYear = regexp.MustCompile(`(?:^|[^a-z])` + abbrGroup + `/(\d{4}|\d{2})(?:\D|$)`)
	abbrSpaceYear = regexp.MustCompile(`(?:^|[^a-z])` + abbrGroup + `\s?(\d{4})(?:\D|$)`)
)

// period is a reference month and year.
type period struct {
	Month string
	Year  int
}

func newPeriod(month, year string) (period, bool) {
	m, ok := ptbr.ParseMonth(month)
	if !ok {
		return period{}, false
	}
	y, ok := ptbr.ExpandYear(year)
	if !ok {
		return period{}, false
	}
	return period{Month: ptbr.MonthName(m), Year: y}, true
}

// isPaymentHeader matches the summary table heading printed above the
// reference period, due date and amount to pay.
func isPaymentHeader(folded string) bool {
	return strings.Contains(folded, "referente a") &&
		strings.Contains(folded, "vencimento") &&
		strings.Contains(folded, "valor a pagar")
}

// paymentRow returns the folded and original line printed under the
// payment header.
func paymentRow(d *extractors.Document) (folded, line string, ok bool) {
	for i, f := range d.Folded {
		if isPaymentHeader(f) && i+1 < d.Len() {
			return d.FoldedLine(i + 1), d.Line(i + 1), true
		}
	}
	return "", "", false
}

func referenceCascade(clock driven.Clock) extractors.Cascade[period] {
	return extractors.Cascade[period]{
		{Name: "payment-header", Find: func(d *extractors.Document) (period, bool) {
			row, _, ok := paymentRow(d)
			if !ok {
				return period{}, false
			}
			if m := headerPeriod.FindStringSubmatch(row); m != nil {
				return newPeriod(m[1], m[2])
			}
			return period{}, false
		}},
		{Name: "referente-a", Find: func(d *extractors.Document) (period, bool) {
			if m := referenteA.FindStringSubmatch(d.FoldedText); m != nil {
				return newPeriod(m[1], m[2])
			}
			return period{}, false
		}},
		{Name: "month-year", Find: monthYear},
		{Name: "abbreviation", Find: func(d *extractors.Document) (period, bool) {
			for _, re := range []*regexp.Regexp{abbrSlashYear, abbrSpaceYear} {
				if m := re.FindStringSubmatch(d.FoldedText); m != nil {
					return newPeriod(m[1], m[2])
				}
			}
			return period{}, false
		}},
		{Name: domain.ProvenanceClock, Find: func(_ *extractors.Document) (period, bool) {
			now := clock.Now()
			return period{Month: ptbr.MonthName(now.Month()), Year: now.Year()}, true
		}},
	}
}

// monthYear looks for a full month name next to a year, first as a phrase
// and then as a "Referência" line whose month and year may sit on the
// following line.
func monthYear(d *extractors.Document) (period, bool) {
	for _, re := range monthYearPatterns {
		if m := re.FindStringSubmatch(d.FoldedText); m != nil {
			return newPeriod(m[1], m[2])
		}
	}

	for _, i := range d.LinesContaining("referente", "referencia") {
		window := d.FoldedLine(i) + "\n" + d.FoldedLine(i+1)
		month := monthWord.FindStringSubmatch(window)
		if month == nil {
			month = abbrWord.FindStringSubmatch(window)
		}
		year := yearToken.FindStringSubmatch(window)
		if month != nil && year != nil {
			return newPeriod(month[1], year[1])
		}
	}
	return period{}, false
}
