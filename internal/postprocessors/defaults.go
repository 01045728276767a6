package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/postprocessors/repair"
)

// ConfigFixups is the builder config key holding the fixup rows
// ([]domain.Fixup) for the fixups step.
const ConfigFixups = "fixups"

// RegisterDefaults registers all built-in repair steps with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(repair.StepClientFromInstallation, static(repair.ClientFromInstallation))
	r.Register(repair.StepTotalFromCurrency, static(repair.TotalFromCurrency))
	r.Register(repair.StepKwhFromUnit, static(repair.KwhFromUnit))
	r.Register(repair.StepDueDateFirstDate, static(repair.DueDateFirstDate))
	r.Register(repair.StepNameUppercase, static(repair.NameUppercase))
	r.Register(repair.StepFixups, buildFixups)
	r.Register(repair.StepConsumptionEstimate, static(repair.ConsumptionEstimate))
	r.Register(repair.StepLightingEstimate, static(repair.LightingEstimate))
	r.Register(repair.StepMonthSanitize, static(repair.MonthSanitize))
}

// DefaultPipeline builds every built-in step in the default order with the
// given fixup rows.
func DefaultPipeline(fixups []domain.Fixup) *Pipeline {
	r := NewRegistry()
	RegisterDefaults(r)
	p, err := r.BuildPipeline(repair.DefaultOrder, map[string]any{ConfigFixups: fixups})
	if err != nil {
		// Every default step is registered above.
		panic(err)
	}
	return p
}

func static(newStep func() *repair.Step) BuilderFunc {
	return func(_ map[string]any) (driven.PostProcessor, error) {
		return newStep(), nil
	}
}

// buildFixups creates the fixup step from generic config.
// Supported config keys:
//   - fixups ([]domain.Fixup): the table rows (default: none)
func buildFixups(cfg map[string]any) (driven.PostProcessor, error) {
	raw, ok := cfg[ConfigFixups]
	if !ok || raw == nil {
		return repair.NewFixups(nil), nil
	}
	rows, ok := raw.([]domain.Fixup)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be []domain.Fixup, got %T", domain.ErrInvalidInput, ConfigFixups, raw)
	}
	return repair.NewFixups(rows), nil
}
