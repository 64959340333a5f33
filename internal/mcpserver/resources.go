package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	schemaResourceURI   = "schema://database"
	tableSchemaTemplate = "schema://tables/{table_name}"
	tableDataTemplate   = "data://tables/{table_name}"
)

// tableDataResourceLimit caps the sample size served through the data
// resource; the get_table_data tool takes an explicit limit instead.
const tableDataResourceLimit = 5

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         schemaResourceURI,
		Name:        "database_schema",
		Description: "The complete database schema.",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text, err := s.bridge.SchemaText(ctx)
		if err != nil {
			text = fmt.Sprintf("Error getting schema: %v", err)
		}
		return textResource(req.Params.URI, text), nil
	})

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: tableSchemaTemplate,
		Name:        "table_schema",
		Description: "Schema information for a specific table.",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		table := tableNameFromURI(req.Params.URI, "schema://tables/")
		return textResource(req.Params.URI, s.describeTable(ctx, table)), nil
	})

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: tableDataTemplate,
		Name:        "table_data",
		Description: "Sample data from a specific table.",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		table := tableNameFromURI(req.Params.URI, "data://tables/")
		return textResource(req.Params.URI, s.tableData(ctx, table, tableDataResourceLimit)), nil
	})
}

func tableNameFromURI(uri, prefix string) string {
	return strings.TrimPrefix(uri, prefix)
}

func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "text/plain", Text: text},
		},
	}
}
