package driven

// ConverterRegistry selects converters for a document.
// It maintains a priority-ordered list of converters per MIME type.
type ConverterRegistry interface {
	// Register adds a converter to the registry.
	Register(converter TextConverter)

	// Candidates returns the converters able to handle mimeType,
	// highest priority first. The specialized path uses the first one,
	// the fallback path the second.
	Candidates(mimeType string) []TextConverter

	// SupportedMIMETypes returns all MIME types that can be converted.
	SupportedMIMETypes() []string
}
