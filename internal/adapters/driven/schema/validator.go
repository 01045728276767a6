// Package schema checks bill records against the JSON schema that
// describes fatura's output.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
)

//go:embed bill.schema.json
var billSchema []byte

const schemaURL = "bill.schema.json"

// Verify interface compliance.
var _ driven.RecordValidator = (*Validator)(nil)

// Validator validates records against the embedded bill schema.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	return NewFromBytes(billSchema)
}

// NewFromBytes compiles a caller-provided schema document.
func NewFromBytes(doc []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Schema returns the embedded schema document.
func Schema() []byte {
	out := make([]byte, len(billSchema))
	copy(out, billSchema)
	return out
}

// Validate marshals rec to its wire form and checks it.
func (v *Validator) Validate(rec *domain.BillRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: nil record", domain.ErrInvalidRecord)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	return nil
}
