package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/export/jsonreport"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driven/export/xlsx"
	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
	"github.com/custodia-labs/fatura-cli/internal/core/ports/driven"
	"github.com/custodia-labs/fatura-cli/internal/logger"
)

var (
	batchWorkers      int
	batchRate         float64
	batchInstallation string
	batchClientID     string
	batchJSON         bool
	batchXLSX         string
	batchDryRun       bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every bill in a folder",
	Long: `Walks a folder recursively and extracts every PDF bill in it.

Installation numbers and reference periods are inferred from paths such as
Instalação_3013110380/3013110380-03-2024.pdf. A bill that cannot be read is
reported as failed and never stops the run.

Examples:
  fatura batch ~/faturas
  fatura batch ~/faturas --installation 3013110380 --xlsx faturas.xlsx
  fatura batch ~/faturas --workers 8 --rate 2 --json > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "bills processed at once (default from config)")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "bills started per second, 0 for unlimited (default from config)")
	batchCmd.Flags().StringVar(&batchInstallation, "installation", "", "only process bills of this installation")
	batchCmd.Flags().StringVar(&batchClientID, "client-id", "", "client identifier to echo back in every result")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "output the report as JSON")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "also write the report to this XLSX workbook")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "list the bills that would be processed")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchService == nil {
		return errors.New("batch service not configured")
	}

	root := args[0]
	if batchDryRun {
		return listBatch(cmd, root)
	}

	opts := domain.BatchOptions{
		Workers:      batchDefaults.Workers,
		Rate:         batchDefaults.Rate,
		Installation: batchInstallation,
		ClientID:     batchClientID,
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = batchWorkers
	}
	if cmd.Flags().Changed("rate") {
		opts.Rate = batchRate
	}

	var (
		report *domain.BatchReport
		err    error
	)
	if !batchJSON && isTerminal(cmd.OutOrStdout()) {
		report, err = runBatchTUI(cmd.Context(), root, opts)
	} else {
		report, err = batchService.Run(cmd.Context(), root, opts)
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if batchXLSX != "" {
		if err := writeReportFile(xlsx.New(logger.L()), report, batchXLSX); err != nil {
			return err
		}
	}

	if batchJSON {
		return jsonreport.New().Write(report, cmd.OutOrStdout())
	}

	cmd.Print(tui.RenderSummary(nil, report))
	if batchXLSX != "" {
		cmd.Printf("Wrote %s\n", batchXLSX)
	}
	return nil
}

func listBatch(cmd *cobra.Command, root string) error {
	files, err := batchService.Discover(cmd.Context(), root, batchInstallation)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}
	if len(files) == 0 {
		cmd.Println("No bills found.")
		return nil
	}
	for _, f := range files {
		h := f.Hints
		cmd.Printf("%s", f.Path)
		if h.Installation != "" {
			cmd.Printf("  installation=%s", h.Installation)
		}
		if h.Month != "" {
			cmd.Printf("  reference=%s/%d", h.Month, h.Year)
		}
		cmd.Println()
	}
	return nil
}

func runBatchTUI(ctx context.Context, root string, opts domain.BatchOptions) (*domain.BatchReport, error) {
	app, err := tui.NewApp(&tui.Ports{Batch: batchService}, root, opts)
	if err != nil {
		return nil, err
	}
	app.WithContext(ctx)

	if _, err := tea.NewProgram(app, tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	report, err := app.Report()
	if errors.Is(err, tui.ErrNotFinished) && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return report, err
}

// writeReportFile renders report into a new file at path.
func writeReportFile(w driven.ReportWriter, report *domain.BatchReport, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s report: %w", w.Format(), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := w.Write(report, f); err != nil {
		return fmt.Errorf("write %s report: %w", w.Format(), err)
	}
	return nil
}
