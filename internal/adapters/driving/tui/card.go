package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// cardSections groups record fields under headings, in display order.
var cardSections = []struct {
	title  string
	fields []domain.Field
}{
	{"Cliente", []domain.Field{
		domain.FieldClientName,
		domain.FieldClientNumber,
		domain.FieldInstallationNumber,
	}},
	{"Referência", []domain.Field{
		domain.FieldReferenceMonth,
		domain.FieldReferenceYear,
		domain.FieldEmissionDate,
		domain.FieldDueDate,
		domain.FieldPreviousReadingDate,
		domain.FieldCurrentReadingDate,
		domain.FieldNextReadingDate,
	}},
	{"Valores", []domain.Field{
		domain.FieldEnergyElectricKwh,
		domain.FieldEnergyElectricValue,
		domain.FieldEnergySCEEEKwh,
		domain.FieldEnergySCEEEValue,
		domain.FieldEnergyCompensatedKwh,
		domain.FieldEnergyCompensatedValue,
		domain.FieldPublicLightingValue,
		domain.FieldTotalValue,
	}},
}

// RenderCard renders an extraction result as a bordered card. Empty
// fields are shown as "-"; filled fields carry their provenance.
func RenderCard(s *styles.Styles, res *domain.ExtractionResult) string {
	if s == nil {
		s = styles.DefaultStyles()
	}

	var rows []string
	rows = append(rows, s.Title.Render(res.URI))

	pathStyle := s.Success
	if res.Path == domain.PathFallback {
		pathStyle = s.Warning
	}
	meta := fmt.Sprintf("%s (%s + %s)", res.Path, res.Converter, res.Extractor)
	if res.Pages > 0 {
		meta += fmt.Sprintf(", %d pages", res.Pages)
	}
	rows = append(rows, pathStyle.Render(meta))

	for _, section := range cardSections {
		rows = append(rows, "", s.Subtitle.Render(section.title))
		for _, f := range section.fields {
			rows = append(rows, renderField(s, res, f))
		}
	}

	if len(res.Warnings) > 0 {
		rows = append(rows, "", s.Subtitle.Render("Avisos"))
		for _, w := range res.Warnings {
			rows = append(rows, s.Warning.Render("! "+w))
		}
	}

	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderField(s *styles.Styles, res *domain.ExtractionResult, f domain.Field) string {
	value := "-"
	if !res.Record.IsEmpty(f) {
		value, _ = res.Record.Get(f)
	}
	line := s.Label.Render(f.String()) + s.Value.Render(value)
	if src, ok := res.Provenance[f]; ok {
		line += " " + s.Muted.Render("("+src+")")
	}
	return line
}

// RenderSummary renders a one-block summary of a batch report.
func RenderSummary(s *styles.Styles, report *domain.BatchReport) string {
	if s == nil {
		s = styles.DefaultStyles()
	}

	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("%d bills", len(report.Items))))
	b.WriteString(" ")
	b.WriteString(s.Muted.Render(report.Root))
	b.WriteString("\n")
	b.WriteString(s.Success.Render(fmt.Sprintf("%d extracted", report.Succeeded())))
	if failed := report.Failed(); failed > 0 {
		b.WriteString("  ")
		b.WriteString(s.Error.Render(fmt.Sprintf("%d failed", failed)))
	}
	b.WriteString("  ")
	b.WriteString(s.Muted.Render(report.Duration().Round(time.Millisecond).String()))
	b.WriteString("\n")

	for _, item := range report.Items {
		if item.Failed() {
			b.WriteString(s.Error.Render("✗ " + item.Path + ": " + item.Error))
			b.WriteString("\n")
		}
	}
	return b.String()
}
