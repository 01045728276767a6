// Package postprocessors runs the repair steps that follow field
// extraction.
package postprocessors

import (
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/extractors"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// Verify interface compliance.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
// It implements the PostProcessorPipeline interface.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new repair pipeline with the given steps.
// Steps are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the record through all steps in order. Each step sees the
// changes made by the ones before it. The result maps every changed field
// to the name of the last step that changed it.
func (p *Pipeline) Process(rec *domain.BillRecord, text string) map[domain.Field]string {
	changed := make(map[domain.Field]string)
	if rec == nil {
		return changed
	}

	lines := extractors.Lines(text)
	for _, processor := range p.processors {
		for _, f := range processor.Process(rec, lines) {
			changed[f] = processor.Name()
			logger.Debug("repair.step", "step", processor.Name(), "field", f.String())
		}
	}

	return changed
}

// Add appends a step to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of steps in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the step names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, processor := range p.processors {
		names[i] = processor.Name()
	}
	return names
}
