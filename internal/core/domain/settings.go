package domain

import "time"

// LogFormat selects the slog handler.
type LogFormat string

// Supported log formats.
const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// IsValid returns true if the format is recognised.
func (f LogFormat) IsValid() bool {
	return f == LogFormatText || f == LogFormatJSON
}

// Settings is the typed view of the configuration file.
type Settings struct {
	Extraction ExtractionSettings
	Batch      BatchSettings
	Repair     RepairSettings
	LogFormat  LogFormat
}

// ExtractionSettings tunes the extraction pipeline.
type ExtractionSettings struct {
	// ConversionTimeout bounds each PDF-to-text call.
	ConversionTimeout time.Duration

	// PdftotextPath overrides the pdftotext binary location.
	PdftotextPath string

	// Validate checks every record against the output schema.
	Validate bool
}

// BatchSettings tunes folder batch runs.
type BatchSettings struct {
	Workers int
	Rate    float64
}

// RepairSettings tunes the repair engine.
type RepairSettings struct {
	// Steps lists repair steps by name, in order. Empty means the default order.
	Steps []string

	// FixupsFile points at a TOML or YAML fixup table.
	FixupsFile string

	// DefaultFixups enables the built-in fixup table.
	DefaultFixups bool
}

// Default configuration values.
const (
	DefaultConversionTimeout = 30 * time.Second
	DefaultBatchWorkers      = 4
)

// DefaultSettings returns settings used when the config file is silent.
func DefaultSettings() Settings {
	return Settings{
		Extraction: ExtractionSettings{
			ConversionTimeout: DefaultConversionTimeout,
		},
		Batch: BatchSettings{
			Workers: DefaultBatchWorkers,
		},
		Repair: RepairSettings{
			DefaultFixups: true,
		},
		LogFormat: LogFormatText,
	}
}
