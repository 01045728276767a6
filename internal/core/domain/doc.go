// Package domain defines the core business entities for fatura.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - BillRecord: The structured figures extracted from one utility bill
//   - Extraction: A record plus the strategy that produced each field
//   - ExtractionResult: The pipeline's answer for one document
//   - RawDocument: Opaque bytes handed in by a caller
//   - Fixup: One row of the known-entity fixup table
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, shopspring/decimal for money values
//   - Cannot Import: Any internal/ package
package domain
