// Package fixups loads the known-entity fixup table from TOML or YAML
// files and layers it over the built-in rows.
package fixups

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.FixupSource = Static(nil)
	_ driven.FixupSource = (*File)(nil)
	_ driven.FixupSource = (*Layered)(nil)
)

// row is the on-disk form of one fixup.
type row struct {
	Match    string `toml:"match" yaml:"match"`
	Field    string `toml:"field" yaml:"field"`
	Value    string `toml:"value" yaml:"value"`
	Override bool   `toml:"override" yaml:"override"`
}

// Table is a parsed fixup file.
type Table struct {
	// Replace discards the rows of the layer below instead of extending them.
	Replace bool  `toml:"replace" yaml:"replace"`
	Rows    []row `toml:"fixup" yaml:"fixup"`
}

// Fixups converts the table rows to domain fixups, validating each one.
func (t Table) Fixups() ([]domain.Fixup, error) {
	out := make([]domain.Fixup, 0, len(t.Rows))
	for i, r := range t.Rows {
		f := domain.Fixup{
			Match:    r.Match,
			Field:    domain.Field(r.Field),
			Value:    r.Value,
			Override: r.Override,
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("fixup %d: %w", i+1, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// Parse decodes a fixup table. The format is chosen from the file
// extension: .toml, .yaml or .yml.
func Parse(name string, data []byte) (Table, error) {
	var t Table
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		if err := toml.Unmarshal(data, &t); err != nil {
			return Table{}, fmt.Errorf("parse %s: %w", name, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
			return Table{}, fmt.Errorf("parse %s: %w", name, err)
		}
	default:
		return Table{}, fmt.Errorf("%w: fixup file %s must be .toml, .yaml or .yml", domain.ErrUnsupportedType, name)
	}
	return t, nil
}

// Static is a fixed, in-memory table.
type Static []domain.Fixup

// Load returns a copy of the rows.
func (s Static) Load() ([]domain.Fixup, error) {
	out := make([]domain.Fixup, len(s))
	copy(out, s)
	return out, nil
}

// File reads a fixup table from disk on every Load.
type File struct {
	path string
}

// NewFile creates a file-backed source.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Table reads and parses the file.
func (f *File) Table() (Table, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, fmt.Errorf("%w: fixup file %s", domain.ErrNotFound, f.path)
		}
		return Table{}, fmt.Errorf("read fixup file: %w", err)
	}
	return Parse(f.path, data)
}

// Load returns the file's rows.
func (f *File) Load() ([]domain.Fixup, error) {
	t, err := f.Table()
	if err != nil {
		return nil, err
	}
	return t.Fixups()
}

// Layered places a file's rows after a base table. A file that sets
// replace = true hides the base rows entirely.
type Layered struct {
	Base    driven.FixupSource
	Overlay *File
}

// Load returns the combined rows. A nil Base or Overlay is skipped.
func (l *Layered) Load() ([]domain.Fixup, error) {
	var base []domain.Fixup
	if l.Base != nil {
		rows, err := l.Base.Load()
		if err != nil {
			return nil, err
		}
		base = rows
	}
	if l.Overlay == nil {
		return base, nil
	}

	t, err := l.Overlay.Table()
	if err != nil {
		return nil, err
	}
	rows, err := t.Fixups()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Overlay.Path(), err)
	}
	if t.Replace {
		return rows, nil
	}
	return append(base, rows...), nil
}
