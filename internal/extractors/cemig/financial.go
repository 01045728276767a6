package cemig

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/fatura-cli/internal/extractors"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

var (
	numericToken  = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
	kwhQuantity   = regexp.MustCompile(`(\d+(?:[.,]\d+)*)\s*kwh`)
	currencyValue = regexp.MustCompile(`r\$\s*:?\s*-?\s*(\d+(?:[.,]\d+)*)`)
	totalLine     = regexp.MustCompile(`^total(?:[^a-z]|$)`)
	trailingMoney = regexp.MustCompile(`(\d{1,3}(?:\.\d{3})*,\d{2})\s*$`)
	amountToPay   = regexp.MustCompile(`valor\s+a\s+pagar[^\d\n]{0,30}(\d{1,3}(?:\.\d{3})*,\d{2})`)
)

// lineItem is one energy row of the billing table.
type lineItem struct {
	Kwh   decimal.Decimal
	Value decimal.Decimal
}

// rowSpec names the folded keywords that anchor an energy row and the
// ones that disqualify it.
type rowSpec struct {
	keywords []string
	excludes []string
}

var (
	electricRow    = rowSpec{keywords: []string{"energia eletrica"}, excludes: []string{"scee", "compensad"}}
	sceeeRow       = rowSpec{keywords: []string{"energia scee"}}
	compensatedRow = rowSpec{keywords: []string{"energia compensada", "energia eletrica compensada"}}

	lightingKeywords = []string{"contrib ilum", "iluminacao publica"}
)

// rows returns the indexes of lines matching spec.
func (spec rowSpec) rows(d *extractors.Document) []int {
	var out []int
	for _, i := range d.LinesContaining(spec.keywords...) {
		if !containsAny(d.FoldedLine(i), spec.excludes...) {
			out = append(out, i)
		}
	}
	return out
}

// lineItemCascade parses the first row matching spec. The
// labelled strategy reads "<kWh> kWh ... R$ <value>"; the positional one
// follows CEMIG's column layout where the first number is the quantity and
// the third the amount (the second is the unit price).
func lineItemCascade(spec rowSpec) extractors.Cascade[lineItem] {
	return extractors.Cascade[lineItem]{
		{Name: "labeled", Find: func(d *extractors.Document) (lineItem, bool) {
			for _, i := range spec.rows(d) {
				folded := d.FoldedLine(i)
				kwh := kwhQuantity.FindStringSubmatch(folded)
				value := currencyValue.FindStringSubmatch(folded)
				if kwh != nil && value != nil {
					return lineItem{Kwh: ptbr.Number(kwh[1]), Value: ptbr.Number(value[1])}, true
				}
			}
			return lineItem{}, false
		}},
		{Name: "positional", Find: func(d *extractors.Document) (lineItem, bool) {
			for _, i := range spec.rows(d) {
				tokens := numericToken.FindAllString(d.FoldedLine(i), -1)
				switch {
				case len(tokens) >= 3:
					return lineItem{Kwh: ptbr.Number(tokens[0]), Value: ptbr.Number(tokens[2])}, true
				case len(tokens) == 2:
					return lineItem{Kwh: ptbr.Number(tokens[0]), Value: ptbr.Number(tokens[1])}, true
				}
			}
			return lineItem{}, false
		}},
	}
}

func lightingCascade() extractors.Cascade[decimal.Decimal] {
	return extractors.Cascade[decimal.Decimal]{
		{Name: "labeled", Find: func(d *extractors.Document) (decimal.Decimal, bool) {
			for _, i := range d.LinesContaining(lightingKeywords...) {
				if m := currencyValue.FindStringSubmatch(d.FoldedLine(i)); m != nil {
					return ptbr.ParseNumber(m[1])
				}
			}
			return decimal.Zero, false
		}},
		{Name: "last-token", Find: func(d *extractors.Document) (decimal.Decimal, bool) {
			for _, i := range d.LinesContaining(lightingKeywords...) {
				tokens := numericToken.FindAllString(d.FoldedLine(i), -1)
				if len(tokens) > 0 {
					return ptbr.ParseNumber(tokens[len(tokens)-1])
				}
			}
			return decimal.Zero, false
		}},
	}
}

func totalCascade() extractors.Cascade[decimal.Decimal] {
	return extractors.Cascade[decimal.Decimal]{
		{Name: "payment-header", Find: func(d *extractors.Document) (decimal.Decimal, bool) {
			row, _, ok := paymentRow(d)
			if !ok {
				return decimal.Zero, false
			}
			if m := trailingMoney.FindStringSubmatch(row); m != nil {
				return ptbr.ParseNumber(m[1])
			}
			return decimal.Zero, false
		}},
		{Name: "total-line", Find: func(d *extractors.Document) (decimal.Decimal, bool) {
			for _, folded := range d.Folded {
				if !totalLine.MatchString(folded) {
					continue
				}
				if tok := numericToken.FindString(folded); tok != "" {
					return ptbr.ParseNumber(tok)
				}
			}
			return decimal.Zero, false
		}},
		{Name: "amount-to-pay", Find: func(d *extractors.Document) (decimal.Decimal, bool) {
			if m := amountToPay.FindStringSubmatch(d.FoldedText); m != nil {
				return ptbr.ParseNumber(m[1])
			}
			return decimal.Zero, false
		}},
	}
}

// credit turns a compensated-energy amount into the negative adjustment it
// represents on the bill.
func credit(v decimal.Decimal) decimal.Decimal {
	return v.Abs().Neg()
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
