package cemig

import (
	"regexp"

	"github.com/custodia-labs/fatura-cli/internal/extractors"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

const readingDate = `(\d{2}/\d{2}(?:/\d{4})?)`

var (
	emissionLabeled = regexp.MustCompile(`data\s+de\s+emissao\s*:?\s*(` + ptbr.FullDatePattern + `)`)
	emissionPhrases = []*regexp.Regexp{
		regexp.MustCompile(`emissao\s*:?\s*(` + ptbr.FullDatePattern + `)`),
		regexp.MustCompile(`emitido\s+em\s*:?\s*(` + ptbr.FullDatePattern + `)`),
		regexp.MustCompile(`(?:^|[^a-z])data\s*:?\s*(` + ptbr.FullDatePattern + `)`),
	}

	dueLabeled = regexp.MustCompile(`vencimento\s*:?\s*(` + ptbr.FullDatePattern + `)`)
	duePhrases = []*regexp.Regexp{
		regexp.MustCompile(`vence\s+em\s*:?\s*(` + ptbr.FullDatePattern + `)`),
		regexp.MustCompile(`pagar\s+ate\s*:?\s*(` + ptbr.FullDatePattern + `)`),
		regexp.MustCompile(`valor\s+a\s+pagar.{1,30}?(` + ptbr.FullDatePattern + `)`),
	}

	previousReading = regexp.MustCompile(`leitura\s+anterior\s*:?\s*` + readingDate)
	currentReading  = regexp.MustCompile(`leitura\s+atual\s*:?\s*` + readingDate)
	nextReading     = regexp.MustCompile(`proxima\s+leitura\s*:?\s*` + readingDate)
	anyReadingDate  = regexp.MustCompile(`\d{2}/\d{2}(?:/\d{4})?`)
)

// readings holds the three meter-reading dates.
type readings struct {
	Previous string
	Current  string
	Next     string
}

func (r readings) isEmpty() bool {
	return r == readings{}
}

func firstSubmatch(res []*regexp.Regexp, text string) (string, bool) {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// dateNear returns the first full date on a line containing a keyword, or
// on the line right after it.
func dateNear(keywords ...string) func(d *extractors.Document) (string, bool) {
	return func(d *extractors.Document) (string, bool) {
		for _, i := range d.LinesContaining(keywords...) {
			if date, ok := ptbr.FirstFullDate(d.Line(i)); ok {
				return date, true
			}
			if date, ok := ptbr.FirstFullDate(d.Line(i + 1)); ok {
				return date, true
			}
		}
		return "", false
	}
}

func emissionDateCascade() extractors.Cascade[string] {
	return extractors.Cascade[string]{
		{Name: "labeled", Find: func(d *extractors.Document) (string, bool) {
			return firstSubmatch([]*regexp.Regexp{emissionLabeled}, d.FoldedText)
		}},
		{Name: "phrase", Find: func(d *extractors.Document) (string, bool) {
			return firstSubmatch(emissionPhrases, d.FoldedText)
		}},
		{Name: "near-keyword", Find: dateNear("emissao", "emitido")},
	}
}

func dueDateCascade() extractors.Cascade[string] {
	return extractors.Cascade[string]{
		{Name: "payment-header", Find: func(d *extractors.Document) (string, bool) {
			row, _, ok := paymentRow(d)
			if !ok {
				return "", false
			}
			return ptbr.FirstFullDate(row)
		}},
		{Name: "labeled", Find: func(d *extractors.Document) (string, bool) {
			return firstSubmatch([]*regexp.Regexp{dueLabeled}, d.FoldedText)
		}},
		{Name: "phrase", Find: func(d *extractors.Document) (string, bool) {
			return firstSubmatch(duePhrases, d.FoldedText)
		}},
		{Name: "near-keyword", Find: dateNear("vencimento", "vence", "pagar ate")},
	}
}

func readingCascade() extractors.Cascade[readings] {
	return extractors.Cascade[readings]{
		{Name: "labeled", Find: func(d *extractors.Document) (readings, bool) {
			var r readings
			r.Previous, _ = firstSubmatch([]*regexp.Regexp{previousReading}, d.FoldedText)
			r.Current, _ = firstSubmatch([]*regexp.Regexp{currentReading}, d.FoldedText)
			r.Next, _ = firstSubmatch([]*regexp.Regexp{nextReading}, d.FoldedText)
			return r, !r.isEmpty()
		}},
		{Name: "reading-line", Find: func(d *extractors.Document) (readings, bool) {
			for _, i := range d.LinesContaining("leitura", "medicao") {
				dates := anyReadingDate.FindAllString(d.Line(i), -1)
				if len(dates) >= 3 {
					return readings{Previous: dates[0], Current: dates[1], Next: dates[2]}, true
				}
			}
			return readings{}, false
		}},
		{Name: "consecutive", Find: func(d *extractors.Document) (readings, bool) {
			for _, line := range d.Lines {
				tokens := ptbr.Tokens(line)
				for j := 0; j+2 < len(tokens); j++ {
					if ptbr.IsShortDate(tokens[j]) && ptbr.IsShortDate(tokens[j+1]) && ptbr.IsShortDate(tokens[j+2]) {
						return readings{Previous: tokens[j], Current: tokens[j+1], Next: tokens[j+2]}, true
					}
				}
			}
			return readings{}, false
		}},
	}
}
