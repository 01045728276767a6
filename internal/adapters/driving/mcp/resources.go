package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for fatura resources.
	uriScheme = "fatura://"

	schemaURI = uriScheme + "schema/bill"
	fixupsURI = uriScheme + "fixups"
)

// registerResources registers the resources whose ports are set.
func (s *Server) registerResources() {
	if len(s.ports.Schema) > 0 {
		s.server.AddResource(&mcp.Resource{
			URI:         schemaURI,
			Name:        "bill-schema",
			Description: "JSON schema of the extracted bill record",
			MIMEType:    "application/schema+json",
		}, s.handleSchemaResource)
	}

	if s.ports.Fixups != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         fixupsURI,
			Name:        "fixups",
			Description: "Known-entity fixup rows applied by the repair engine",
			MIMEType:    "application/json",
		}, s.handleFixupsResource)
	}
}

// handleSchemaResource returns the bill record schema.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/schema+json",
			Text:     string(s.ports.Schema),
		}},
	}, nil
}

// fixupInfo is the JSON form of one fixup row.
type fixupInfo struct {
	Match    string `json:"match"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Override bool   `json:"override,omitempty"`
}

// handleFixupsResource returns the active fixup table.
func (s *Server) handleFixupsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	rows, err := s.ports.Fixups.List()
	if err != nil {
		return nil, fmt.Errorf("listing fixups: %w", err)
	}

	infos := make([]fixupInfo, len(rows))
	for i, r := range rows {
		infos[i] = fixupInfo{
			Match:    r.Match,
			Field:    r.Field.String(),
			Value:    r.Value,
			Override: r.Override,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling fixups: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
