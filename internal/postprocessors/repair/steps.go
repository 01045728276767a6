// Package repair provides the cross-field inference steps run on a draft
// bill record after field extraction. Each step fills or corrects fields
// only when the evidence it needs is present, and reports what it changed.
package repair

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

// Step names, in their default order.
const (
	StepClientFromInstallation = "client-from-installation"
	StepTotalFromCurrency      = "total-from-currency"
	StepKwhFromUnit            = "kwh-from-unit"
	StepDueDateFirstDate       = "due-date-first-date"
	StepNameUppercase          = "name-uppercase"
	StepFixups                 = "fixups"
	StepConsumptionEstimate    = "consumption-estimate"
	StepLightingEstimate       = "lighting-estimate"
	StepMonthSanitize          = "month-sanitize"
)

// DefaultOrder is the order steps run in when none is configured. Text
// rescans come before the fixup table, and the estimates run last so they
// only ever fill what nothing else could.
var DefaultOrder = []string{
	StepClientFromInstallation,
	StepTotalFromCurrency,
	StepKwhFromUnit,
	StepDueDateFirstDate,
	StepNameUppercase,
	StepFixups,
	StepConsumptionEstimate,
	StepLightingEstimate,
	StepMonthSanitize,
}

var (
	currencyToken = regexp.MustCompile(`R\$\s*:?\s*(\d+(?:[.,]\d+)*)`)
	kwhToken      = regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*kWh`)
	asciiUpper    = regexp.MustCompile(`^[A-Z\s]{10,60}$`)
	digit         = regexp.MustCompile(`\d`)

	// Estimate ratios for bills where consumption and lighting were not
	// printed in a readable form.
	kwhPerReal      = decimal.RequireFromString("1.5")
	electricShare   = decimal.RequireFromString("0.7")
	lightingShare   = decimal.RequireFromString("0.1")
	headingKeywords = []string{
		"cliente", "instalacao", "referente", "total", "energia", "fatura",
		"nota fiscal", "vencimento", "leitura", "documento", "conta",
		"cemig", "companhia", "distribui", "energetica",
	}
)

// uppercaseScanLines bounds the unicode uppercase-line scan.
const uppercaseScanLines = 20

// Step is a named repair step backed by a function.
type Step struct {
	name string
	fn   func(rec *domain.BillRecord, lines []string) []domain.Field
}

// Verify interface compliance.
var _ driven.PostProcessor = (*Step)(nil)

// Name returns the step name.
func (s *Step) Name() string { return s.name }

// Process applies the step to rec.
func (s *Step) Process(rec *domain.BillRecord, lines []string) []domain.Field {
	if rec == nil {
		return nil
	}
	return s.fn(rec, lines)
}

// ClientFromInstallation copies the installation number into an empty
// client number.
func ClientFromInstallation() *Step {
	return &Step{name: StepClientFromInstallation, fn: func(rec *domain.BillRecord, _ []string) []domain.Field {
		if rec.ClientNumber != "" || rec.InstallationNumber == "" {
			return nil
		}
		rec.ClientNumber = rec.InstallationNumber
		return []domain.Field{domain.FieldClientNumber}
	}}
}

// TotalFromCurrency sets a zero total to the largest R$ amount in the text.
func TotalFromCurrency() *Step {
	return &Step{name: StepTotalFromCurrency, fn: func(rec *domain.BillRecord, lines []string) []domain.Field {
		if !rec.TotalValue.IsZero() {
			return nil
		}
		var (
			best  decimal.Decimal
			found bool
		)
		for _, line := range lines {
			for _, m := range currencyToken.FindAllStringSubmatch(line, -1) {
				v, ok := ptbr.ParseNumber(m[1])
				if ok && (!found || v.GreaterThan(best)) {
					best, found = v, true
				}
			}
		}
		if !found || best.IsZero() {
			return nil
		}
		rec.TotalValue = best
		return []domain.Field{domain.FieldTotalValue}
	}}
}

// KwhFromUnit sets a zero electric consumption to the first "<n> kWh"
// token in the text.
func KwhFromUnit() *Step {
	return &Step{name: StepKwhFromUnit, fn: func(rec *domain.BillRecord, lines []string) []domain.Field {
		if !rec.EnergyElectricKwh.IsZero() {
			return nil
		}
		for _, line := range lines {
			m := kwhToken.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v, ok := ptbr.ParseNumber(m[1]); ok && !v.IsZero() {
				rec.EnergyElectricKwh = v
				return []domain.Field{domain.FieldEnergyElectricKwh}
			}
		}
		return nil
	}}
}

// DueDateFirstDate sets an empty due date to the first dd/mm/yyyy date in
// the text.
func DueDateFirstDate() *Step {
	return &Step{name: StepDueDateFirstDate, fn: func(rec *domain.BillRecord, lines []string) []domain.Field {
		if rec.DueDate != "" {
			return nil
		}
		for _, line := range lines {
			if date, ok := ptbr.FirstFullDate(line); ok {
				rec.DueDate = date
				return []domain.Field{domain.FieldDueDate}
			}
		}
		return nil
	}}
}

// NameUppercase fills an empty client name with an uppercase line of
// plausible name length. ASCII-only lines anywhere in the text win over
// accented ones near the top.
func NameUppercase() *Step {
	return &Step{name: StepNameUppercase, fn: func(rec *domain.BillRecord, lines []string) []domain.Field {
		if rec.ClientName != "" {
			return nil
		}
		for _, line := range lines {
			if asciiUpper.MatchString(line) && !isHeading(line) {
				rec.ClientName = strings.TrimSpace(line)
				return []domain.Field{domain.FieldClientName}
			}
		}
		for i, line := range lines {
			if i >= uppercaseScanLines {
				break
			}
			n := len([]rune(line))
			if n > 10 && n < 60 && strings.ToUpper(line) == line &&
				!digit.MatchString(line) && lettersOnly(line) && !isHeading(line) {
				rec.ClientName = line
				return []domain.Field{domain.FieldClientName}
			}
		}
		return nil
	}}
}

// ConsumptionEstimate derives electric consumption and value from the
// total when consumption is still zero.
func ConsumptionEstimate() *Step {
	return &Step{name: StepConsumptionEstimate, fn: func(rec *domain.BillRecord, _ []string) []domain.Field {
		if !rec.EnergyElectricKwh.IsZero() || !rec.TotalValue.IsPositive() {
			return nil
		}
		rec.EnergyElectricKwh = rec.TotalValue.Div(kwhPerReal).Round(0)
		rec.EnergyElectricValue = rec.TotalValue.Mul(electricShare)
		return []domain.Field{domain.FieldEnergyElectricKwh, domain.FieldEnergyElectricValue}
	}}
}

// LightingEstimate derives the public lighting fee from the total when it
// is still zero.
func LightingEstimate() *Step {
	return &Step{name: StepLightingEstimate, fn: func(rec *domain.BillRecord, _ []string) []domain.Field {
		if !rec.PublicLightingValue.IsZero() || !rec.TotalValue.IsPositive() {
			return nil
		}
		rec.PublicLightingValue = rec.TotalValue.Mul(lightingShare)
		return []domain.Field{domain.FieldPublicLightingValue}
	}}
}

// MonthSanitize rewrites the reference month to its canonical name, or
// clears it when it is not a month at all.
func MonthSanitize() *Step {
	return &Step{name: StepMonthSanitize, fn: func(rec *domain.BillRecord, _ []string) []domain.Field {
		if rec.ReferenceMonth == "" || ptbr.IsCanonicalMonth(rec.ReferenceMonth) {
			return nil
		}
		month := ptbr.NormalizeMonth(rec.ReferenceMonth)
		if !ptbr.IsCanonicalMonth(month) {
			month = ""
		}
		rec.ReferenceMonth = month
		return []domain.Field{domain.FieldReferenceMonth}
	}}
}

func isHeading(line string) bool {
	folded := ptbr.Fold(line)
	for _, kw := range headingKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

func lettersOnly(s string) bool {
	hasLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsSpace(r), r == '.', r == '&', r == '-', r == '\'':
		default:
			return false
		}
	}
	return hasLetter
}
