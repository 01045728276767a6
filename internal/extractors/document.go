package extractors

import (
	"strings"

	"github.com/custodia-labs/fatura-cli/internal/locale/ptbr"
)

// Lines splits raw text into trimmed, non-empty lines, keeping their order.
// No line is dropped for its content.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Document is normalised bill text. Folded holds the same lines lowercased
// and without accents, index for index, for label matching.
type Document struct {
	Lines  []string
	Folded []string

	// Text and FoldedText are the lines joined with "\n".
	Text       string
	FoldedText string
}

// NewDocument normalises text into a Document.
func NewDocument(text string) *Document {
	lines := Lines(text)
	folded := make([]string, len(lines))
	for i, line := range lines {
		folded[i] = ptbr.Fold(line)
	}
	return &Document{
		Lines:      lines,
		Folded:     folded,
		Text:       strings.Join(lines, "\n"),
		FoldedText: strings.Join(folded, "\n"),
	}
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.Lines)
}

// Line returns line i, or "" when i is out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.Lines) {
		return ""
	}
	return d.Lines[i]
}

// FoldedLine returns folded line i, or "" when i is out of range.
func (d *Document) FoldedLine(i int) string {
	if i < 0 || i >= len(d.Folded) {
		return ""
	}
	return d.Folded[i]
}

// Head bounds n to the number of lines, for scans limited to the top of
// the document.
func (d *Document) Head(n int) int {
	if n > len(d.Lines) {
		return len(d.Lines)
	}
	return n
}

// LinesContaining returns the indexes of folded lines containing any of
// the folded keywords.
func (d *Document) LinesContaining(keywords ...string) []int {
	var out []int
	for i, f := range d.Folded {
		for _, kw := range keywords {
			if strings.Contains(f, kw) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
