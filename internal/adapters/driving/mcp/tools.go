package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/shopspring/decimal"

	"github.com/custodia-labs/fatura-cli/internal/core/domain"
)

// ExtractBillInput is the input schema for the extract_bill tool.
type ExtractBillInput struct {
	Path     string `json:"path" jsonschema:"absolute path to a bill PDF or text file on the server's filesystem"`
	ClientID string `json:"client_id,omitempty" jsonschema:"caller's client identifier, echoed back in the hints"`
}

// ExtractBillTextInput is the input schema for the extract_bill_text tool.
type ExtractBillTextInput struct {
	Text     string `json:"text" jsonschema:"plain text of a bill, in the layout pdftotext produces"`
	ClientID string `json:"client_id,omitempty" jsonschema:"caller's client identifier, echoed back in the hints"`
}

// BillOutput mirrors domain.BillRecord with plain numbers, so that the
// generated output schema matches the JSON the record encodes to.
type BillOutput struct {
	ClientNumber           string  `json:"clientNumber"`
	InstallationNumber     string  `json:"installationNumber"`
	ClientName             string  `json:"clientName"`
	ReferenceMonth         string  `json:"referenceMonth"`
	ReferenceYear          int     `json:"referenceYear"`
	EnergyElectricKwh      float64 `json:"energyElectricKwh"`
	EnergyElectricValue    float64 `json:"energyElectricValue"`
	EnergySCEEEKwh         float64 `json:"energySCEEEKwh"`
	EnergySCEEEValue       float64 `json:"energySCEEEValue"`
	EnergyCompensatedKwh   float64 `json:"energyCompensatedKwh"`
	EnergyCompensatedValue float64 `json:"energyCompensatedValue"`
	PublicLightingValue    float64 `json:"publicLightingValue"`
	TotalValue             float64 `json:"totalValue"`
	EmissionDate           string  `json:"emissionDate"`
	DueDate                string  `json:"dueDate"`
	CurrentReadingDate     string  `json:"currentReadingDate"`
	PreviousReadingDate    string  `json:"previousReadingDate"`
	NextReadingDate        string  `json:"nextReadingDate"`
}

// ExtractOutput is the output schema for both extraction tools.
type ExtractOutput struct {
	Record     BillOutput        `json:"record"`
	Path       string            `json:"path"`
	Converter  string            `json:"converter"`
	Extractor  string            `json:"extractor"`
	Pages      int               `json:"pages,omitempty"`
	Provenance map[string]string `json:"provenance,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_bill",
		Description: "Extract client, period, consumption, amounts and dates from a CEMIG electricity bill file",
	}, s.handleExtractBill)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_bill_text",
		Description: "Extract client, period, consumption, amounts and dates from the text of a CEMIG electricity bill",
	}, s.handleExtractBillText)
}

// handleExtractBill handles the extract_bill tool invocation.
func (s *Server) handleExtractBill(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractBillInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, ExtractOutput{}, ErrEmptyInput
	}

	result, err := s.ports.Extraction.ExtractFile(ctx, path, domain.Hints{ClientID: input.ClientID})
	if err != nil {
		s.log().Warn("mcp.extract_bill.failed", "path", path, "error", err)
		return nil, ExtractOutput{}, err
	}
	return nil, toOutput(result), nil
}

// handleExtractBillText handles the extract_bill_text tool invocation.
func (s *Server) handleExtractBillText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractBillTextInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, ExtractOutput{}, ErrEmptyInput
	}

	raw := &domain.RawDocument{
		URI:      "mcp:text",
		MIMEType: domain.MIMETypePlainText,
		Content:  []byte(input.Text),
		Hints:    domain.Hints{ClientID: input.ClientID},
	}
	result, err := s.ports.Extraction.Extract(ctx, raw)
	if err != nil {
		s.log().Warn("mcp.extract_bill_text.failed", "error", err)
		return nil, ExtractOutput{}, err
	}
	return nil, toOutput(result), nil
}

func toOutput(res *domain.ExtractionResult) ExtractOutput {
	out := ExtractOutput{
		Record:    toBillOutput(&res.Record),
		Path:      string(res.Path),
		Converter: res.Converter,
		Extractor: res.Extractor,
		Pages:     res.Pages,
		Warnings:  res.Warnings,
	}
	if len(res.Provenance) > 0 {
		out.Provenance = make(map[string]string, len(res.Provenance))
		for f, src := range res.Provenance {
			out.Provenance[f.String()] = src
		}
	}
	return out
}

func toBillOutput(r *domain.BillRecord) BillOutput {
	f := func(d decimal.Decimal) float64 { return d.InexactFloat64() }
	return BillOutput{
		ClientNumber:           r.ClientNumber,
		InstallationNumber:     r.InstallationNumber,
		ClientName:             r.ClientName,
		ReferenceMonth:         r.ReferenceMonth,
		ReferenceYear:          r.ReferenceYear,
		EnergyElectricKwh:      f(r.EnergyElectricKwh),
		EnergyElectricValue:    f(r.EnergyElectricValue),
		EnergySCEEEKwh:         f(r.EnergySCEEEKwh),
		EnergySCEEEValue:       f(r.EnergySCEEEValue),
		EnergyCompensatedKwh:   f(r.EnergyCompensatedKwh),
		EnergyCompensatedValue: f(r.EnergyCompensatedValue),
		PublicLightingValue:    f(r.PublicLightingValue),
		TotalValue:             f(r.TotalValue),
		EmissionDate:           r.EmissionDate,
		DueDate:                r.DueDate,
		CurrentReadingDate:     r.CurrentReadingDate,
		PreviousReadingDate:    r.PreviousReadingDate,
		NextReadingDate:        r.NextReadingDate,
	}
}
