package domain

// ExtractionPath identifies which pipeline state produced a result.
type ExtractionPath string

// Pipeline states.
const (
	// PathSpecialized is the label-aware extractor followed by repair.
	PathSpecialized ExtractionPath = "specialized"

	// PathFallback is the generic extractor with its regex rescue pass.
	PathFallback ExtractionPath = "fallback"
)

// Provenance values that are not the name of an extraction strategy.
const (
	// ProvenanceClock marks a reference period taken from the current date.
	ProvenanceClock = "clock"

	// ProvenanceHint marks a value copied from Hints.
	ProvenanceHint = "hint"

	// ProvenanceRepairPrefix prefixes values filled by a repair step.
	ProvenanceRepairPrefix = "repair:"
)

// Extraction is what a single extractor produces from one document's text.
type Extraction struct {
	Record BillRecord

	// Provenance maps each filled field to the name of the strategy that
	// produced it.
	Provenance map[Field]string
}

// NewExtraction returns an empty extraction ready to be filled.
func NewExtraction() *Extraction {
	return &Extraction{Provenance: make(map[Field]string)}
}

// Note records which strategy produced a field.
func (e *Extraction) Note(f Field, strategy string) {
	if e.Provenance == nil {
		e.Provenance = make(map[Field]string)
	}
	e.Provenance[f] = strategy
}

// ExtractionResult is the pipeline's answer for one document.
type ExtractionResult struct {
	// ID identifies this result within a run.
	ID string `json:"id"`

	// URI is the document's original location.
	URI string `json:"uri"`

	// Record is the final bill record.
	Record BillRecord `json:"record"`

	// Path is the pipeline state that produced Record.
	Path ExtractionPath `json:"path"`

	// Converter and Extractor name the components used on Path.
	Converter string `json:"converter"`
	Extractor string `json:"extractor"`

	// Pages is the PDF page count, or 0 when unknown.
	Pages int `json:"pages,omitempty"`

	// Provenance maps each filled field to the strategy that filled it.
	Provenance map[Field]string `json:"provenance,omitempty"`

	// Warnings lists non-fatal problems met along the way.
	Warnings []string `json:"warnings,omitempty"`

	// Hints echoes the hints the document came with.
	Hints Hints `json:"hints,omitempty"`
}

// AddWarning appends a non-fatal problem to the result.
func (r *ExtractionResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
