package generic

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

const strategyRescue = "rescue"

var (
	rescueClient      = regexp.MustCompile(`(?i)N[o°º]\s*DO\s*CLIENTE:?\s*(\d+)`)
	rescueReference   = regexp.MustCompile(`(?i)Refer[eê]n[tc][ei]a\s*a\s*([A-Za-zçÇ]+)/(\d{4})`)
	rescueElectric    = regexp.MustCompile(`(?i)Energia\s*El[ée]trica:?\s*([\d.,]+)\s*kWh\s*R\$\s*([\d.,]+)`)
	rescueSCEEE       = regexp.MustCompile(`(?i)Energia\s*SCEEE\s*s/ICMS:?\s*([\d.,]+)\s*kWh\s*R\$\s*([\d.,]+)`)
	rescueCompensated = regexp.MustCompile(`(?i)Energia\s*Compensada\s*GD\s*[I1]:?\s*([\d.,]+)\s*kWh`)
	rescueLighting    = regexp.MustCompile(`(?i)Contrib\s*Ilum\s*Publica\s*Municipal:?\s*R\$\s*([\d.,]+)`)
)

// needsRescue reports whether the line splitter missed the electric row.
func (inv *invoice) needsRescue() bool {
	return inv.electricKwh.IsZero() && inv.electricValue.IsZero()
}

// rescue runs whole-text patterns and fills whatever is still empty.
func (inv *invoice) rescue(text string) {
	if inv.customerNumber == "" {
		if m := rescueClient.FindStringSubmatch(text); m != nil {
			inv.customerNumber = m[1]
			inv.note(strategyRescue, domain.FieldClientNumber)
		}
	}
	if inv.referenceMonth == "" || inv.referenceYear == "" {
		if m := rescueReference.FindStringSubmatch(text); m != nil {
			inv.referenceMonth, inv.referenceYear = m[1], m[2]
			inv.note(strategyRescue, domain.FieldReferenceMonth, domain.FieldReferenceYear)
		}
	}
	if m := rescueElectric.FindStringSubmatch(text); m != nil {
		inv.fill(&inv.electricKwh, m[1], domain.FieldEnergyElectricKwh)
		inv.fill(&inv.electricValue, m[2], domain.FieldEnergyElectricValue)
	}
	if m := rescueSCEEE.FindStringSubmatch(text); m != nil {
		inv.fill(&inv.sceeeKwh, m[1], domain.FieldEnergySCEEEKwh)
		inv.fill(&inv.sceeeValue, m[2], domain.FieldEnergySCEEEValue)
	}
	if m := rescueCompensated.FindStringSubmatch(text); m != nil {
		inv.fill(&inv.compensatedKwh, m[1], domain.FieldEnergyCompensatedKwh)
	}
	if m := rescueLighting.FindStringSubmatch(text); m != nil {
		inv.fill(&inv.lighting, m[1], domain.FieldPublicLightingValue)
	}
}

func (inv *invoice) fill(dst *decimal.Decimal, raw string, f domain.Field) {
	if !dst.IsZero() {
		return
	}
	if v, ok := ptbr.ParseNumber(raw); ok && !v.IsZero() {
		*dst = v
		inv.note(strategyRescue, f)
	}
}
