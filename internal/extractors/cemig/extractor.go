// Package cemig reads the text of CEMIG electricity bills.
//
// Every field has its own cascade of strategies, tried from the most
// label-anchored to the most heuristic. The first strategy that answers
// wins and its name is recorded as the field's provenance.
package cemig

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/clock"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/extractors"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// Name identifies this extractor in results.
const Name = "cemig"

// Verify interface compliance.
var _ driven.BillExtractor = (*Extractor)(nil)

// Extractor is the label-aware extractor for CEMIG bills.
type Extractor struct {
	clock  driven.Clock
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used when no reference period is printed.
func WithClock(c driven.Clock) Option {
	return func(e *Extractor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger used for per-field debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a CEMIG extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{clock: clock.System{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the extractor identifier.
func (e *Extractor) Name() string {
	return Name
}

func (e *Extractor) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logger.L()
}

// Extract runs every field cascade over text. Fields no strategy finds are
// left empty; the only error is a cancelled context.
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := extractors.NewDocument(text)
	out := domain.NewExtraction()
	rec := &out.Record

	setString := func(f domain.Field, c extractors.Cascade[string]) {
		if v, strategy, ok := c.Run(d); ok && v != "" {
			_ = rec.Set(f, v)
			out.Note(f, strategy)
		}
	}

	setString(domain.FieldClientNumber, clientNumberCascade())
	setString(domain.FieldInstallationNumber, installationNumberCascade())
	setString(domain.FieldClientName, clientNameCascade())

	if p, strategy, ok := referenceCascade(e.clock).Run(d); ok {
		rec.ReferenceMonth = p.Month
		rec.ReferenceYear = p.Year
		out.Note(domain.FieldReferenceMonth, strategy)
		out.Note(domain.FieldReferenceYear, strategy)
	}

	items := []struct {
		spec       rowSpec
		kwh, value domain.Field
	}{
		{electricRow, domain.FieldEnergyElectricKwh, domain.FieldEnergyElectricValue},
		{sceeeRow, domain.FieldEnergySCEEEKwh, domain.FieldEnergySCEEEValue},
		{compensatedRow, domain.FieldEnergyCompensatedKwh, domain.FieldEnergyCompensatedValue},
	}
	for _, it := range items {
		item, strategy, ok := lineItemCascade(it.spec).Run(d)
		if !ok {
			continue
		}
		if it.value == domain.FieldEnergyCompensatedValue {
			item.Value = credit(item.Value)
		}
		_ = rec.Set(it.kwh, item.Kwh.String())
		_ = rec.Set(it.value, item.Value.String())
		out.Note(it.kwh, strategy)
		out.Note(it.value, strategy)
	}

	if v, strategy, ok := lightingCascade().Run(d); ok {
		rec.PublicLightingValue = v
		out.Note(domain.FieldPublicLightingValue, strategy)
	}
	if v, strategy, ok := totalCascade().Run(d); ok {
		rec.TotalValue = v
		out.Note(domain.FieldTotalValue, strategy)
	}

	setString(domain.FieldEmissionDate, emissionDateCascade())
	setString(domain.FieldDueDate, dueDateCascade())

	if r, strategy, ok := readingCascade().Run(d); ok {
		for f, v := range map[domain.Field]string{
			domain.FieldPreviousReadingDate: r.Previous,
			domain.FieldCurrentReadingDate:  r.Current,
			domain.FieldNextReadingDate:     r.Next,
		} {
			if v != "" {
				_ = rec.Set(f, v)
				out.Note(f, strategy)
			}
		}
	}

	log := e.log()
	for _, f := range domain.Fields() {
		if strategy, ok := out.Provenance[f]; ok {
			v, _ := rec.Get(f)
			log.Debug("cemig.field", "extractor", Name, "field", f.String(), "strategy", strategy, "value", v)
		}
	}
	log.Debug("cemig.done", "extractor", Name, "lines", d.Len(), "fields", len(out.Provenance))

	return out, nil
}
