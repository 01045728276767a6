// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextConverter: Turns a PDF (or text file) into plain text
//   - ConverterRegistry: Selects converters by MIME type and priority
//   - BillExtractor: Reads bill text into a record
//   - PostProcessorPipeline: Repairs a draft record
//   - Clock: Current time for the reference-period fallback
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DocumentInspector: PDF page count and structure check
//   - RecordValidator: Output schema check. Violations become warnings.
//   - FixupSource: Extra fixup table rows
//   - ReportWriter: Batch report export
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or normaliser package
package driven
