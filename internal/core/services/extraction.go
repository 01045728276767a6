package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// Ensure ExtractionPipeline implements the interface.
var _ driving.ExtractionService = (*ExtractionPipeline)(nil)

// ExtractionPipeline is the two-state extraction machine. The specialized
// state converts with the best converter, runs the label-aware extractor
// and then the repair steps. Any error there moves to the fallback state,
// which converts with the next converter and runs the generic extractor
// without repair. A fallback failure is terminal.
type ExtractionPipeline struct {
	converters  driven.ConverterRegistry
	specialized driven.BillExtractor
	fallback    driven.BillExtractor
	repair      driven.PostProcessorPipeline

	loader    driven.DocumentLoader
	inspector driven.DocumentInspector
	validator driven.RecordValidator

	timeout time.Duration
	logger  *slog.Logger
	newID   func() string
}

// ExtractionOption configures an ExtractionPipeline.
type ExtractionOption func(*ExtractionPipeline)

// WithLoader sets the loader used by ExtractFile.
func WithLoader(l driven.DocumentLoader) ExtractionOption {
	return func(p *ExtractionPipeline) { p.loader = l }
}

// WithInspector sets the optional PDF inspector.
func WithInspector(i driven.DocumentInspector) ExtractionOption {
	return func(p *ExtractionPipeline) { p.inspector = i }
}

// WithValidator sets the optional record validator.
func WithValidator(v driven.RecordValidator) ExtractionOption {
	return func(p *ExtractionPipeline) { p.validator = v }
}

// WithConversionTimeout bounds each PDF-to-text call. Zero disables it.
func WithConversionTimeout(d time.Duration) ExtractionOption {
	return func(p *ExtractionPipeline) { p.timeout = d }
}

// WithExtractionLogger sets the logger. Nil keeps the process logger.
func WithExtractionLogger(l *slog.Logger) ExtractionOption {
	return func(p *ExtractionPipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithIDGenerator replaces the uuid result id source.
func WithIDGenerator(fn func() string) ExtractionOption {
	return func(p *ExtractionPipeline) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// NewExtractionPipeline creates the pipeline. A nil repair pipeline skips
// repair.
func NewExtractionPipeline(
	converters driven.ConverterRegistry,
	specialized driven.BillExtractor,
	fallback driven.BillExtractor,
	repair driven.PostProcessorPipeline,
	opts ...ExtractionOption,
) *ExtractionPipeline {
	p := &ExtractionPipeline{
		converters:  converters,
		specialized: specialized,
		fallback:    fallback,
		repair:      repair,
		timeout:     domain.DefaultConversionTimeout,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ExtractionPipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logger.L()
}

// ExtractFile loads the document at path and extracts it.
func (p *ExtractionPipeline) ExtractFile(ctx context.Context, path string, hints domain.Hints) (*domain.ExtractionResult, error) {
	if p.loader == nil {
		return nil, fmt.Errorf("load %s: document loader not configured", path)
	}
	raw, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	raw.Hints = mergeHints(raw.Hints, hints)
	return p.Extract(ctx, raw)
}

// Extract runs the pipeline on one document.
func (p *ExtractionPipeline) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidInput)
	}

	candidates := p.converters.Candidates(raw.MIMEType)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.MIMEType)
	}

	log := p.log().With("uri", raw.URI)
	result := &domain.ExtractionResult{
		ID:    p.newID(),
		URI:   raw.URI,
		Hints: raw.Hints,
	}

	if p.inspector != nil && raw.MIMEType == domain.MIMETypePDF {
		info, err := p.inspector.Inspect(ctx, raw)
		if err != nil {
			log.Warn("extract.inspect", "error", err)
			result.AddWarning(fmt.Sprintf("inspect: %v", err))
		} else {
			result.Pages = info.Pages
		}
	}

	ext, err := p.runSpecialized(ctx, candidates[0], raw)
	if err == nil {
		result.Path = domain.PathSpecialized
		result.Converter = candidates[0].Name()
		result.Extractor = p.specialized.Name()
	} else {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, ctxErr)
		}
		log.Warn("extract.fallback", "converter", candidates[0].Name(), "error", err)
		result.AddWarning(fmt.Sprintf("specialized: %v", err))

		conv := candidates[0]
		if len(candidates) > 1 {
			conv = candidates[1]
		}
		ext, err = p.runFallback(ctx, conv, raw)
		if err != nil {
			log.Error("extract.failed", "converter", conv.Name(), "error", err)
			return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
		}
		result.Path = domain.PathFallback
		result.Converter = conv.Name()
		result.Extractor = p.fallback.Name()
	}

	result.Record = ext.Record
	result.Provenance = ext.Provenance
	if result.Provenance == nil {
		result.Provenance = make(map[domain.Field]string)
	}
	applyHints(result)

	if p.validator != nil {
		if err := p.validator.Validate(&result.Record); err != nil {
			log.Warn("extract.invalid", "error", err)
			result.AddWarning(err.Error())
		}
	}

	log.Info("extract.done",
		"id", result.ID,
		"path", string(result.Path),
		"converter", result.Converter,
		"fields", len(result.Provenance),
		"warnings", len(result.Warnings),
	)
	return result, nil
}

func (p *ExtractionPipeline) runSpecialized(ctx context.Context, conv driven.TextConverter, raw *domain.RawDocument) (*domain.Extraction, error) {
	if p.specialized == nil {
		return nil, errors.New("specialized extractor not configured")
	}
	text, err := p.convert(ctx, conv, raw)
	if err != nil {
		return nil, err
	}
	ext, err := p.specialized.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.specialized.Name(), err)
	}
	if ext == nil {
		ext = domain.NewExtraction()
	}
	if ext.Provenance == nil {
		ext.Provenance = make(map[domain.Field]string)
	}

	if p.repair != nil {
		for field, step := range p.repair.Process(&ext.Record, text) {
			ext.Provenance[field] = domain.ProvenanceRepairPrefix + step
		}
	}
	return ext, nil
}

func (p *ExtractionPipeline) runFallback(ctx context.Context, conv driven.TextConverter, raw *domain.RawDocument) (*domain.Extraction, error) {
	if p.fallback == nil {
		return nil, errors.New("fallback extractor not configured")
	}
	text, err := p.convert(ctx, conv, raw)
	if err != nil {
		return nil, err
	}
	ext, err := p.fallback.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.fallback.Name(), err)
	}
	if ext == nil {
		ext = domain.NewExtraction()
	}
	return ext, nil
}

// convert runs one converter under the conversion timeout. Blank output
// counts as a conversion failure.
func (p *ExtractionPipeline) convert(ctx context.Context, conv driven.TextConverter, raw *domain.RawDocument) (string, error) {
	convCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		convCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	text, err := conv.Convert(convCtx, raw)
	if err != nil {
		if !errors.Is(err, domain.ErrConversionFailed) {
			err = fmt.Errorf("%w: %s: %w", domain.ErrConversionFailed, conv.Name(), err)
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s produced no text", domain.ErrConversionFailed, conv.Name())
	}
	return text, nil
}

// applyHints fills the installation and reference period from hints when
// the document left them empty or the period came from the clock.
func applyHints(result *domain.ExtractionResult) {
	h := result.Hints
	rec := &result.Record

	if h.Installation != "" && rec.InstallationNumber == "" {
		rec.InstallationNumber = h.Installation
		result.Provenance[domain.FieldInstallationNumber] = domain.ProvenanceHint
	}

	if h.Month == "" || h.Year == 0 {
		return
	}
	fromClock := result.Provenance[domain.FieldReferenceMonth] == domain.ProvenanceClock ||
		result.Provenance[domain.FieldReferenceYear] == domain.ProvenanceClock
	if rec.ReferenceMonth == "" || fromClock {
		rec.ReferenceMonth = h.Month
		rec.ReferenceYear = h.Year
		result.Provenance[domain.FieldReferenceMonth] = domain.ProvenanceHint
		result.Provenance[domain.FieldReferenceYear] = domain.ProvenanceHint
	}
}

// mergeHints overlays the non-empty fields of override on base.
func mergeHints(base, override domain.Hints) domain.Hints {
	if override.ClientID != "" {
		base.ClientID = override.ClientID
	}
	if override.Installation != "" {
		base.Installation = override.Installation
	}
	if override.Month != "" && override.Year != 0 {
		base.Month = override.Month
		base.Year = override.Year
	}
	return base
}
