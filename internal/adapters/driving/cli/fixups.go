package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var fixupsJSON bool

var fixupsCmd = &cobra.Command{
	Use:   "fixups",
	Short: "Inspect the known-entity fixup table",
	Long: `Fixups set a record field whenever a known substring appears in a bill.
The built-in rows can be extended or replaced by the TOML or YAML file named
in repair.fixups_file, and disabled with repair.default_fixups = false.`,
}

var fixupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active fixup rows",
	RunE:  runFixupsList,
}

func init() {
	fixupsListCmd.Flags().BoolVar(&fixupsJSON, "json", false, "output rows as JSON")
	fixupsCmd.AddCommand(fixupsListCmd)
	rootCmd.AddCommand(fixupsCmd)
}

// fixupJSON is the JSON form of one row.
type fixupJSON struct {
	Match    string `json:"match"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Override bool   `json:"override"`
}

func runFixupsList(cmd *cobra.Command, _ []string) error {
	if fixupService == nil {
		return errors.New("fixup service not configured")
	}

	rows, err := fixupService.List()
	if err != nil {
		return fmt.Errorf("failed to list fixups: %w", err)
	}

	if fixupsJSON {
		out := make([]fixupJSON, len(rows))
		for i, r := range rows {
			out[i] = fixupJSON{Match: r.Match, Field: r.Field.String(), Value: r.Value, Override: r.Override}
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	if len(rows) == 0 {
		cmd.Println("No fixups configured.")
		return nil
	}

	cmd.Println("Fixups:")
	for i, r := range rows {
		mode := "fill"
		if r.Override {
			mode = "override"
		}
		cmd.Printf("  [%d] %q -> %s = %s (%s)\n", i+1, r.Match, r.Field, r.Value, mode)
	}
	return nil
}
