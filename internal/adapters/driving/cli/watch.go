package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

var watchClientID string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Extract bills as they appear in a folder",
	Long: `Watches a folder tree and extracts every PDF bill created or rewritten in
it. Each result is printed as one JSON line; failures are printed as a
line with an "error" field. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchClientID, "client-id", "", "client identifier to echo back in every result")
	rootCmd.AddCommand(watchCmd)
}

// watchLine is one line of watch output.
type watchLine struct {
	Path   string                   `json:"path"`
	Change string                   `json:"change"`
	Result *domain.ExtractionResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}
	if billWatcher == nil {
		return errors.New("watcher not configured")
	}

	ctx := cmd.Context()
	changes, err := billWatcher.Watch(ctx, args[0])
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.PrintErrf("Watching %s for bills (Ctrl+C to stop)\n", args[0])

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	for change := range changes {
		line := watchLine{Path: change.Path, Change: string(change.Type)}
		result, err := extractionService.ExtractFile(ctx, change.Path, domain.Hints{ClientID: watchClientID})
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			line.Error = err.Error()
		} else {
			line.Result = result
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}
