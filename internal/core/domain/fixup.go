package domain

import (
	"fmt"
	"strings"
)

// Fixup is one row of the known-entity table consulted by the repair
// engine. When Match occurs verbatim in a document's text, Field is set
// to Value.
type Fixup struct {
	// Match is the exact substring to look for.
	Match string

	// Field is the record field to set.
	Field Field

	// Value is the textual value, in the form BillRecord.Set accepts.
	Value string

	// Override replaces a value already present. Without it the fixup
	// only fills an empty field.
	Override bool
}

// Validate checks that the fixup can be applied.
func (f Fixup) Validate() error {
	if strings.TrimSpace(f.Match) == "" {
		return fmt.Errorf("%w: fixup match is empty", ErrInvalidInput)
	}
	if !f.Field.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownField, f.Field)
	}
	probe := BillRecord{}
	if err := probe.Set(f.Field, f.Value); err != nil {
		return err
	}
	return nil
}

// Matches reports whether the fixup's substring occurs in text.
func (f Fixup) Matches(text string) bool {
	return f.Match != "" && strings.Contains(text, f.Match)
}
