package cemig

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/fatura-cli/internal/extractors"
)

// Patterns run against folded (lowercase, accent-free) text.
var (
	clientLabel       = regexp.MustCompile(`(?:^|[^a-z])n[º°o]?\.?\s*do\s+cliente`)
	installationLabel = regexp.MustCompile(`(?:^|[^a-z])n[º°o]?\.?\s*da\s+instalacao`)

	clientSameLine       = regexp.MustCompile(`(?:^|[^a-z])n[º°o]?\.?\s*do\s+cliente\s*:?\s*(\d+)`)
	installationSameLine = regexp.MustCompile(`(?:^|[^a-z])n[º°o]?\.?\s*da\s+instalacao\s*:?\s*(\d+)`)

	clientPhrases = []*regexp.Regexp{
		regexp.MustCompile(`cliente\s*:?\s*(\d+)`),
		regexp.MustCompile(`cliente\s+n[º°o]\s*(\d+)`),
		regexp.MustCompile(`codigo\s+do\s+cliente\s*:?\s*(\d+)`),
		regexp.MustCompile(`n[º°o]\s+cliente\s*:?\s*(\d+)`),
	}
	installationPhrases = []*regexp.Regexp{
		regexp.MustCompile(`instalacao\s*:?\s*(\d+)`),
		regexp.MustCompile(`instalacao\s+n[º°o]\s*:?\s*(\d+)`),
		regexp.MustCompile(`n[º°o]\s+instalacao\s*:?\s*(\d+)`),
	}

	digitsOnly    = regexp.MustCompile(`^\d+$`)
	headerNumbers = regexp.MustCompile(`^(\d{5,})\s+(\d{5,})`)

	accountRun     = regexp.MustCompile(`(?:^|\D)(\d{7,12})(?:\D|$)`)
	topAccountRun  = regexp.MustCompile(`(?:^|\D)(\d{7,10})(?:\D|$)`)
	knownPrefixRun = regexp.MustCompile(`(?:^|\D)((?:3001|7204|7202)\d{6})(?:\D|$)`)
	tenDigitRun    = regexp.MustCompile(`(?:^|\D)(\d{10})(?:\D|$)`)
	anyDigit       = regexp.MustCompile(`\d`)
	labeledName    = regexp.MustCompile(`(?i)(?:cliente|consumidor|nome)\s*:\s*(.+?)(?:\s+(?:cpf|cnpj)\b.*)?$`)
	upperName      = regexp.MustCompile(`^[A-ZÀ-Ý][A-ZÀ-Ý .'&-]*$`)
	properName     = regexp.MustCompile(`^[A-ZÀ-Ý][a-zà-ÿ]+(?:\s+(?:da|de|do|das|dos|e|[A-ZÀ-Ý][a-zà-ÿ]+))*$`)
	addressLine    = regexp.MustCompile(`(?i)^(?:rua|r\.|av\.?|avenida|alameda|praça|praca|travessa|rodovia)\s`)
)

// nameStopwords disqualify a line from being a client name. They are the
// folded words of the utility's own headings and table labels.
var nameStopwords = []string{
	"cemig", "companhia", "energetica", "distribui", "energia", "fatura",
	"nota fiscal", "documento", "conta", "cliente", "instalacao", "referente",
	"vencimento", "valor", "total", "leitura", "endereco", "classe",
	"inscricao", "cnpj", "cpf", "tarifa", "tributo", "informac", "minas gerais",
	"residencial", "comercial", "aviso", "pagamento", "codigo", "banco",
	"consumo", "historico", "medidor", "agencia", "mensagem",
}

const (
	topLines       = 20
	prefixTopLines = 30
)

// headerValue finds a label and reads the number printed under it. CEMIG
// prints "Nº DO CLIENTE Nº DA INSTALAÇÃO" on one line and both numbers on
// the next; the numbers follow the labels' order.
func headerValue(d *extractors.Document, self, other *regexp.Regexp) (string, bool) {
	for i, folded := range d.Folded {
		loc := self.FindStringIndex(folded)
		if loc == nil {
			continue
		}
		next := d.Line(i + 1)
		if digitsOnly.MatchString(next) {
			return next, true
		}
		otherLoc := other.FindStringIndex(folded)
		if otherLoc == nil {
			continue
		}
		if m := headerNumbers.FindStringSubmatch(next); m != nil {
			if loc[0] < otherLoc[0] {
				return m[1], true
			}
			return m[2], true
		}
	}
	return "", false
}

func sameLine(re *regexp.Regexp) func(d *extractors.Document) (string, bool) {
	return func(d *extractors.Document) (string, bool) {
		for _, folded := range d.Folded {
			if m := re.FindStringSubmatch(folded); m != nil {
				return m[1], true
			}
		}
		return "", false
	}
}

func phrases(res []*regexp.Regexp) func(d *extractors.Document) (string, bool) {
	return func(d *extractors.Document) (string, bool) {
		for _, re := range res {
			if m := re.FindStringSubmatch(d.FoldedText); m != nil {
				return m[1], true
			}
		}
		return "", false
	}
}

// nearKeyword looks for an account-sized number on any line containing
// keyword or within span lines after it.
func nearKeyword(keyword string, span int) func(d *extractors.Document) (string, bool) {
	return func(d *extractors.Document) (string, bool) {
		for _, i := range d.LinesContaining(keyword) {
			for j := i; j <= i+span && j < d.Len(); j++ {
				if m := accountRun.FindStringSubmatch(d.Line(j)); m != nil {
					return m[1], true
				}
			}
		}
		return "", false
	}
}

func firstInTop(re *regexp.Regexp, n int) func(d *extractors.Document) (string, bool) {
	return func(d *extractors.Document) (string, bool) {
		for i := 0; i < d.Head(n); i++ {
			if m := re.FindStringSubmatch(d.Line(i)); m != nil {
				return m[1], true
			}
		}
		return "", false
	}
}

func clientNumberCascade() extractors.Cascade[string] {
	return extractors.Cascade[string]{
		{Name: "label-next-line", Find: func(d *extractors.Document) (string, bool) {
			return headerValue(d, clientLabel, installationLabel)
		}},
		{Name: "label-same-line", Find: sameLine(clientSameLine)},
		{Name: "phrase", Find: phrases(clientPhrases)},
		{Name: "near-keyword", Find: nearKeyword("cliente", 2)},
		{Name: "top-of-document", Find: firstInTop(topAccountRun, topLines)},
	}
}

func installationNumberCascade() extractors.Cascade[string] {
	return extractors.Cascade[string]{
		{Name: "label-next-line", Find: func(d *extractors.Document) (string, bool) {
			return headerValue(d, installationLabel, clientLabel)
		}},
		{Name: "label-same-line", Find: sameLine(installationSameLine)},
		{Name: "phrase", Find: phrases(installationPhrases)},
		{Name: "near-keyword", Find: nearKeyword("instalacao", 1)},
		{Name: "known-prefix", Find: firstInTop(knownPrefixRun, prefixTopLines)},
		{Name: "ten-digit", Find: func(d *extractors.Document) (string, bool) {
			if m := tenDigitRun.FindStringSubmatch(d.Text); m != nil {
				return m[1], true
			}
			return "", false
		}},
	}
}

func clientNameCascade() extractors.Cascade[string] {
	return extractors.Cascade[string]{
		{Name: "labeled", Find: labeledClientName},
		{Name: "heading-line", Find: headingName},
		{Name: "before-address", Find: nameBeforeAddress},
		{Name: "before-tax-id", Find: nameBeforeTaxID},
	}
}

func labeledClientName(d *extractors.Document) (string, bool) {
	for _, line := range d.Lines {
		m := labeledName.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if runeLen(name) > 5 && !anyDigit.MatchString(name) && hasLetter(name) {
			return name, true
		}
	}
	return "", false
}

func headingName(d *extractors.Document) (string, bool) {
	for i := 0; i < d.Head(topLines); i++ {
		line := d.Line(i)
		if runeLen(line) <= 10 || !plausibleName(line, d.FoldedLine(i)) {
			continue
		}
		if upperName.MatchString(line) || properName.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

func nameBeforeAddress(d *extractors.Document) (string, bool) {
	for i := 1; i < d.Len(); i++ {
		if !addressLine.MatchString(d.Line(i)) {
			continue
		}
		prev := d.Line(i - 1)
		if runeLen(prev) > 5 && plausibleName(prev, d.FoldedLine(i-1)) {
			return prev, true
		}
	}
	return "", false
}

func nameBeforeTaxID(d *extractors.Document) (string, bool) {
	ids := d.LinesContaining("cpf", "cnpj")
	if len(ids) == 0 {
		return "", false
	}
	first := ids[0]
	for j := first - 1; j >= 0 && j >= first-3; j-- {
		line := d.Line(j)
		if runeLen(line) > 10 && plausibleName(line, d.FoldedLine(j)) {
			return line, true
		}
	}
	return "", false
}

func plausibleName(line, folded string) bool {
	if anyDigit.MatchString(line) || !hasLetter(line) {
		return false
	}
	for _, w := range nameStopwords {
		if strings.Contains(folded, w) {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
