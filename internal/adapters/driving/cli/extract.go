package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fatura-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

var (
	extractJSON     bool
	extractClientID string
	extractValidate bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract one bill",
	Long: `Extracts a single CEMIG bill into a structured record.

The file may be a PDF or a text file already converted with pdftotext.
Use "-" to read from standard input; PDF content is detected by its
header, anything else is treated as text.

The installation number and reference period are also inferred from the
file name when it follows the <installation>-MM-YYYY.pdf convention.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the result as JSON")
	extractCmd.Flags().StringVar(&extractClientID, "client-id", "", "client identifier to echo back in the result")
	extractCmd.Flags().BoolVar(&extractValidate, "validate", false, "fail if the record does not match the output schema")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	ctx := cmd.Context()
	hints := domain.Hints{ClientID: extractClientID}

	var (
		result *domain.ExtractionResult
		err    error
	)
	if args[0] == "-" {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		result, err = extractionService.Extract(ctx, stdinDocument(data, hints))
	} else {
		result, err = extractionService.ExtractFile(ctx, args[0], hints)
	}
	if err != nil {
		return err
	}

	if extractValidate {
		if recordValidator == nil {
			return errors.New("record validator not configured")
		}
		if err := recordValidator.Validate(&result.Record); err != nil {
			return err
		}
	}

	if extractJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	if isTerminal(cmd.OutOrStdout()) {
		cmd.Println(tui.RenderCard(nil, result))
		return nil
	}
	outputRecordText(cmd, result)
	return nil
}

func stdinDocument(data []byte, hints domain.Hints) *domain.RawDocument {
	mime := domain.MIMETypePlainText
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		mime = domain.MIMETypePDF
	}
	return &domain.RawDocument{
		URI:      "stdin",
		MIMEType: mime,
		Content:  data,
		Hints:    hints,
	}
}

func outputRecordText(cmd *cobra.Command, result *domain.ExtractionResult) {
	cmd.Printf("%s\n", result.URI)
	cmd.Printf("  path: %s (%s + %s)\n", result.Path, result.Converter, result.Extractor)
	for _, f := range domain.Fields() {
		if result.Record.IsEmpty(f) {
			cmd.Printf("  %-24s -\n", f)
			continue
		}
		value, _ := result.Record.Get(f)
		if src, ok := result.Provenance[f]; ok {
			cmd.Printf("  %-24s %s (%s)\n", f, value, src)
		} else {
			cmd.Printf("  %-24s %s\n", f, value)
		}
	}
	for _, w := range result.Warnings {
		cmd.Printf("  warning: %s\n", w)
	}
}
