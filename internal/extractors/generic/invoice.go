package generic

import (
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

// invoice is the coarse shape the line splitter fills. Numbers left at
// zero were not found.
type invoice struct {
	customerNumber string
	customerName   string
	referenceMonth string
	referenceYear  string

	electricKwh      decimal.Decimal
	electricValue    decimal.Decimal
	sceeeKwh         decimal.Decimal
	sceeeValue       decimal.Decimal
	compensatedKwh   decimal.Decimal
	compensatedValue decimal.Decimal
	lighting         decimal.Decimal
	total            decimal.Decimal

	// provenance names the step that filled each field.
	provenance map[domain.Field]string
}

func newInvoice() *invoice {
	return &invoice{provenance: make(map[domain.Field]string)}
}

func (inv *invoice) note(strategy string, fields ...domain.Field) {
	for _, f := range fields {
		inv.provenance[f] = strategy
	}
}

// toExtraction maps the invoice onto the public record. The month is kept
// only when it names a real month; the compensated amount becomes a credit.
func (inv *invoice) toExtraction() *domain.Extraction {
	out := domain.NewExtraction()
	rec := &out.Record

	rec.ClientNumber = inv.customerNumber
	rec.ClientName = inv.customerName

	if month := ptbr.NormalizeMonth(inv.referenceMonth); ptbr.IsCanonicalMonth(month) {
		rec.ReferenceMonth = month
	} else {
		delete(inv.provenance, domain.FieldReferenceMonth)
	}
	if inv.referenceYear != "" {
		if err := rec.Set(domain.FieldReferenceYear, inv.referenceYear); err != nil {
			delete(inv.provenance, domain.FieldReferenceYear)
		}
	}

	rec.EnergyElectricKwh = inv.electricKwh
	rec.EnergyElectricValue = inv.electricValue
	rec.EnergySCEEEKwh = inv.sceeeKwh
	rec.EnergySCEEEValue = inv.sceeeValue
	rec.EnergyCompensatedKwh = inv.compensatedKwh
	rec.EnergyCompensatedValue = inv.compensatedValue.Abs().Neg()
	rec.PublicLightingValue = inv.lighting
	rec.TotalValue = inv.total

	for f, strategy := range inv.provenance {
		if !rec.IsEmpty(f) {
			out.Note(f, strategy)
		}
	}
	return out
}
