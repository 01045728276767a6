package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/clock"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/fixups"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/pdfinfo"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/schema"
	"github.com/custodia-labs/fatura-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/core/services"
	"github.com/custodia-labs/fatura-cli/internal/extractors/cemig"
	"github.com/custodia-labs/fatura-cli/internal/extractors/generic"
	"github.com/custodia-labs/fatura-cli/internal/logger"
	"github.com/custodia-labs/fatura-cli/internal/normalisers"
	"github.com/custodia-labs/fatura-cli/internal/normalisers/gopdf"
	"github.com/custodia-labs/fatura-cli/internal/normalisers/pdf"
	"github.com/custodia-labs/fatura-cli/internal/normalisers/plaintext"
	"github.com/custodia-labs/fatura-cli/internal/postprocessors"
	"github.com/custodia-labs/fatura-cli/internal/postprocessors/repair"
)

// wireServices builds every service from the configuration in dir and
// installs them in the package variables.
func wireServices(dir string) error {
	settings := wireSettings(dir)
	log := logger.L()
	sys := clock.System{}

	converters := normalisers.NewRegistry(
		pdf.New(pdf.WithBinary(settings.Extraction.PdftotextPath)),
		gopdf.New(),
		plaintext.New(),
	)

	catalog := services.NewFixupCatalog(fixupSource(settings.Repair.DefaultFixups, settings.Repair.FixupsFile))
	rows, err := catalog.List()
	if err != nil {
		return err
	}

	steps := settings.Repair.Steps
	if len(steps) == 0 {
		steps = repair.DefaultOrder
	}
	stepRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(stepRegistry)
	repairPipeline, err := stepRegistry.BuildPipeline(steps, map[string]any{postprocessors.ConfigFixups: rows})
	if err != nil {
		return fmt.Errorf("repair steps: %w", err)
	}

	validator, err := schema.New()
	if err != nil {
		return err
	}

	conn := filesystem.New(filesystem.WithLogger(log))

	opts := []services.ExtractionOption{
		services.WithLoader(conn),
		services.WithInspector(pdfinfo.New()),
		services.WithConversionTimeout(settings.Extraction.ConversionTimeout),
		services.WithExtractionLogger(log),
	}
	if settings.Extraction.Validate {
		opts = append(opts, services.WithValidator(validator))
	}

	pipeline := services.NewExtractionPipeline(
		converters,
		cemig.New(cemig.WithClock(sys), cemig.WithLogger(log)),
		generic.New(generic.WithClock(sys), generic.WithLogger(log)),
		repairPipeline,
		opts...,
	)

	extractionService = pipeline
	batchService = services.NewBatchProcessor(conn, pipeline, sys, log)
	fixupService = catalog
	billWatcher = conn
	recordValidator = validator
	batchDefaults = settings.Batch

	log.Debug("cli.wired",
		"config", configPath,
		"converters", len(converters.Candidates(domain.MIMETypePDF)),
		"repair_steps", repairPipeline.Names(),
		"fixups", len(rows),
	)
	return nil
}

// wireSettings installs the settings service and applies the log format.
// It never fails, so configuration commands keep working when the rest
// of the configuration is broken.
func wireSettings(dir string) domain.Settings {
	store := openConfigStore(dir)
	settingsService = services.NewSettingsService(store)
	configPath = store.Path()

	settings := services.LoadSettings(store)
	logger.SetFormat(string(settings.LogFormat))
	return settings
}

// openConfigStore opens the TOML store in dir, falling back to an
// in-memory store when the directory cannot be used.
func openConfigStore(dir string) driven.ConfigStore {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		logger.Warn("config.fallback", "dir", dir, "error", err)
		return memory.NewConfigStore()
	}
	return store
}

// fixupSource layers the optional fixup file over the built-in table.
func fixupSource(useDefaults bool, path string) driven.FixupSource {
	var base fixups.Static
	if useDefaults {
		base = fixups.Static(repair.DefaultFixups())
	}
	if path == "" {
		return base
	}
	return &fixups.Layered{Base: base, Overlay: fixups.NewFile(expandHome(path))}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
