package driven

import "github.com/custodia-labs/fatura-cli/internal/core/domain"

// PostProcessor is one repair step run on a draft record after field
// extraction. Steps infer or correct fields from cross-field evidence.
type PostProcessor interface {
	// Name returns the step name for logging and configuration.
	Name() string

	// Process mutates rec in place, reading the document's normalised
	// lines, and returns the fields it changed. It never fails.
	Process(rec *domain.BillRecord, lines []string) []domain.Field
}

// PostProcessorPipeline chains repair steps.
type PostProcessorPipeline interface {
	// Process runs rec through every step in order and returns, for each
	// changed field, the name of the last step that changed it.
	Process(rec *domain.BillRecord, text string) map[domain.Field]string
}
