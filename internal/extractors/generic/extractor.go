// Package generic is the fallback bill extractor. It splits the text into
// lines, reads values at fixed offsets from a handful of labels and, when
// the electric row is still missing, rescues the financial fields with
// whole-text patterns.
package generic

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/clock"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/extractors"
	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// Name identifies this extractor in results.
const Name = "generic"

const (
	strategyNextLine = "label-next-line"
	strategySameLine = "label-same-line"
	strategyOffset   = "name-offset"
	strategyRow      = "row-tokens"
	strategyTotal    = "total-split"
)

var (
	wideGap        = regexp.MustCompile(`\s{2,}`)
	whitespace     = regexp.MustCompile(`\s+`)
	leadingDigits  = regexp.MustCompile(`^\d+`)
	referenceInRow = regexp.MustCompile(`referente\s+a\s+([a-z]+)\s*/\s*(\d{4})`)
)

// Verify interface compliance.
var _ driven.BillExtractor = (*Extractor)(nil)

// Extractor is the coarse fallback extractor.
type Extractor struct {
	clock  driven.Clock
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used when no reference year is printed.
func WithClock(c driven.Clock) Option {
	return func(e *Extractor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a generic extractor.
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

// Extract reads text with the line splitter and the rescue pass.
func (e *Extractor) Extract(ctx context.Context, text string) (*domain.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := extractors.NewDocument(text)
	inv := newInvoice()

	clientIdx := firstLine(d, "nº do cliente", "n° do cliente", "no do cliente")
	readLabeledFields(d, inv, clientIdx)
	readRows(d, inv)

	rescued := false
	if inv.needsRescue() {
		inv.rescue(text)
		rescued = true
	}

	if inv.referenceYear == "" {
		inv.referenceYear = strconv.Itoa(e.clock.Now().Year())
		inv.note(domain.ProvenanceClock, domain.FieldReferenceYear)
	}

	out := inv.toExtraction()
	e.log().Debug("generic.done",
		"extractor", Name,
		"lines", d.Len(),
		"rescued", rescued,
		"fields", len(out.Provenance),
	)
	return out, nil
}

// readLabeledFields fills the identity and period from the lines around
// their labels.
func readLabeledFields(d *extractors.Document, inv *invoice, clientIdx int) {
	if clientIdx >= 0 && clientIdx+1 < d.Len() {
		first := wideGap.Split(d.Line(clientIdx+1), -1)[0]
		if n := leadingDigits.FindString(first); n != "" {
			inv.customerNumber = n
			inv.note(strategyNextLine, domain.FieldClientNumber)
		}
	}

	// The name sits a fixed number of lines above the client number label,
	// one more when the state registration block is printed.
	if clientIdx > 5 {
		offset := 5
		if firstLine(d, "inscricao estadual") >= 0 {
			offset = 6
		}
		inv.customerName = d.Line(clientIdx - offset)
		inv.note(strategyOffset, domain.FieldClientName)
	}

	refIdx := firstLine(d, "referente a")
	if refIdx < 0 {
		return
	}
	if m := referenceInRow.FindStringSubmatch(d.FoldedLine(refIdx)); m != nil {
		inv.referenceMonth, inv.referenceYear = m[1], m[2]
		inv.note(strategySameLine, domain.FieldReferenceMonth, domain.FieldReferenceYear)
		return
	}
	next := wideGap.Split(d.Line(refIdx+1), -1)[0]
	if month, year, ok := strings.Cut(next, "/"); ok {
		inv.referenceMonth = strings.TrimSpace(month)
		inv.referenceYear = leadingDigits.FindString(strings.TrimSpace(year))
		inv.note(strategyNextLine, domain.FieldReferenceMonth, domain.FieldReferenceYear)
	}
}

// readRows reads the energy, lighting and total rows.
func readRows(d *extractors.Document, inv *invoice) {
	if qty, value, ok := energyRow(d, "energia eletrica"); ok {
		inv.electricKwh, inv.electricValue = qty, value
		inv.note(strategyRow, domain.FieldEnergyElectricKwh, domain.FieldEnergyElectricValue)
	}
	if qty, value, ok := energyRow(d, "energia scee"); ok {
		inv.sceeeKwh, inv.sceeeValue = qty, value
		inv.note(strategyRow, domain.FieldEnergySCEEEKwh, domain.FieldEnergySCEEEValue)
	}
	if qty, value, ok := energyRow(d, "energia compensada"); ok {
		inv.compensatedKwh, inv.compensatedValue = qty, value
		inv.note(strategyRow, domain.FieldEnergyCompensatedKwh, domain.FieldEnergyCompensatedValue)
	}
	if i := firstLine(d, "contrib ilum publica"); i >= 0 {
		if _, value := rowTokens(d.Line(i)); value != "" {
			inv.lighting = ptbr.Number(value)
			inv.note(strategyRow, domain.FieldPublicLightingValue)
		}
	}

	for _, line := range d.Lines {
		if !strings.Contains(line, "TOTAL") {
			continue
		}
		if parts := wideGap.Split(line, -1); len(parts) > 1 {
			inv.total = ptbr.Number(parts[1])
			inv.note(strategyTotal, domain.FieldTotalValue)
		}
		break
	}
}

// energyRow parses the first line containing keyword.
func energyRow(d *extractors.Document, keyword string) (qty, value decimal.Decimal, ok bool) {
	i := firstLine(d, keyword)
	if i < 0 {
		return qty, value, false
	}
	q, v := rowTokens(d.Line(i))
	if q == "" && v == "" {
		return qty, value, false
	}
	return ptbr.Number(q), ptbr.Number(v), true
}

// rowTokens returns the token before "kWh" and the one after "R$".
func rowTokens(line string) (quantity, value string) {
	parts := whitespace.Split(line, -1)
	for i, p := range parts {
		if strings.EqualFold(p, "kwh") && i > 0 {
			quantity = parts[i-1]
		}
		if (p == "R$" || p == "R$:") && i < len(parts)-1 {
			value = parts[i+1]
		}
	}
	return quantity, value
}

// firstLine returns the index of the first line whose folded form contains
// any of the keywords, or -1.
func firstLine(d *extractors.Document, keywords ...string) int {
	if idx := d.LinesContaining(keywords...); len(idx) > 0 {
		return idx[0]
	}
	return -1
}
