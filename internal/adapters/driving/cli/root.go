// Package cli provides the fatura command-line interface. Commands are
// package-level cobra commands registered in init, and they reach the
// core through the driving-port variables declared here.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fatura-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driving"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// annotationServices selects what a command needs wired: "none",
// "settings", or everything when unset.
const annotationServices = "fatura/services"

// Global flags.
var (
	verbose   bool
	configDir string
)

// autoWire builds the services before a command runs. Tests turn it off
// and install mocks instead.
var autoWire = true

// Services used by the commands. wireServices fills them in.
var (
	extractionService driving.ExtractionService
	batchService      driving.BatchService
	settingsService   driving.SettingsService
	fixupService      driving.FixupService
	billWatcher       watcher
	recordValidator   driven.RecordValidator
	configPath        string
	batchDefaults     = domain.DefaultSettings().Batch
)

// watcher reports bills created or written under a directory.
type watcher interface {
	Watch(ctx context.Context, root string) (<-chan filesystem.Change, error)
}

var rootCmd = &cobra.Command{
	Use:   "fatura",
	Short: "Extract structured data from CEMIG electricity bills",
	Long: `fatura reads CEMIG electricity bill PDFs and returns the client and
installation numbers, reference period, consumption, amounts and dates as
structured records.

Bills can be extracted one at a time, in bulk from a folder, as they appear
in a watched folder, or by an AI assistant through the MCP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if !autoWire {
			return nil
		}
		switch cmd.Annotations[annotationServices] {
		case "none":
			return nil
		case "settings":
			wireSettings(configDir)
			return nil
		default:
			return wireServices(configDir)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.fatura)")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
