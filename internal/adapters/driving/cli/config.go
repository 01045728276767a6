package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fatura-cli/internal/postprocessors/repair"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage configuration",
	Long:        `View and change the settings stored in config.toml.`,
	Annotations: map[string]string{annotationServices: "settings"},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationServices: "settings"},
	RunE:        runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the configuration file path",
	Annotations: map[string]string{annotationServices: "settings"},
	RunE:        runConfigPath,
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List the recognised setting keys",
	Annotations: map[string]string{annotationServices: "settings"},
	RunE:        runConfigKeys,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Parses value according to the key's type and saves it.

Examples:
  fatura config set batch.workers 8
  fatura config set extraction.conversion_timeout 60
  fatura config set repair.steps total-from-currency,month-sanitize
  fatura config set repair.fixups_file ~/.fatura/fixups.toml`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationServices: "settings"},
	RunE:        runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("[extraction]")
	cmd.Printf("  conversion_timeout = %s\n", settings.Extraction.ConversionTimeout)
	cmd.Printf("  pdftotext_path     = %s\n", orDefault(settings.Extraction.PdftotextPath, "pdftotext"))
	cmd.Printf("  validate           = %t\n", settings.Extraction.Validate)
	cmd.Println()

	cmd.Println("[batch]")
	cmd.Printf("  workers = %d\n", settings.Batch.Workers)
	if settings.Batch.Rate > 0 {
		cmd.Printf("  rate    = %g/s\n", settings.Batch.Rate)
	} else {
		cmd.Println("  rate    = unlimited")
	}
	cmd.Println()

	steps := settings.Repair.Steps
	if len(steps) == 0 {
		steps = repair.DefaultOrder
	}
	cmd.Println("[repair]")
	cmd.Printf("  steps          = %s\n", strings.Join(steps, ", "))
	cmd.Printf("  fixups_file    = %s\n", orDefault(settings.Repair.FixupsFile, "(none)"))
	cmd.Printf("  default_fixups = %t\n", settings.Repair.DefaultFixups)
	cmd.Println()

	cmd.Println("[log]")
	cmd.Printf("  format = %s\n", settings.LogFormat)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configPath == "" {
		return errors.New("configuration not loaded")
	}
	cmd.Println(configPath)
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
