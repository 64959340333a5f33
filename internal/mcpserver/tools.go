package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sqlbridge/sqlbridge/internal/bridge"
	"github.com/sqlbridge/sqlbridge/internal/format"
)

type executeSQLInput struct {
	Query string `json:"query"`
}

type naturalLanguageInput struct {
	NaturalQuery string `json:"natural_query"`
}

type tableNameInput struct {
	TableName string `json:"table_name"`
}

type tableDataInput struct {
	TableName string `json:"table_name"`
	Limit     int    `json:"limit,omitempty"`
}

func (s *Server) registerTools() error {
	executeSchema, err := jsonschema.For[executeSQLInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create execute_sql_query input schema: %w", err)
	}
	naturalSchema, err := jsonschema.For[naturalLanguageInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create natural_language_query input schema: %w", err)
	}
	listSchema, err := jsonschema.For[struct{}](nil)
	if err != nil {
		return fmt.Errorf("failed to create list_tables input schema: %w", err)
	}
	describeSchema, err := jsonschema.For[tableNameInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create describe_table input schema: %w", err)
	}
	dataSchema, err := jsonschema.For[tableDataInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create get_table_data input schema: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "execute_sql_query",
		Description: "Execute a SQL query and return the results.",
		InputSchema: executeSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in executeSQLInput) (*mcp.CallToolResult, any, error) {
		return textResult(s.executeSQL(ctx, in.Query)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "natural_language_query",
		Description: "Convert natural language to SQL and execute the query.",
		InputSchema: naturalSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in naturalLanguageInput) (*mcp.CallToolResult, any, error) {
		return textResult(s.naturalLanguageQuery(ctx, in.NaturalQuery)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_tables",
		Description: "List all tables in the database.",
		InputSchema: listSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		return textResult(s.listTables(ctx)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "describe_table",
		Description: "Get detailed information about a specific table.",
		InputSchema: describeSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in tableNameInput) (*mcp.CallToolResult, any, error) {
		return textResult(s.describeTable(ctx, in.TableName)), nil, nil
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_table_data",
		Description: "Get sample data from a table.",
		InputSchema: dataSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in tableDataInput) (*mcp.CallToolResult, any, error) {
		return textResult(s.tableData(ctx, in.TableName, in.Limit)), nil, nil
	})

	return nil
}

func (s *Server) executeSQL(ctx context.Context, query string) string {
	outcome, err := s.bridge.ExecuteSQL(ctx, query)
	if err != nil {
		return fmt.Sprintf("Error executing query: %v", err)
	}
	return format.Outcome(outcome)
}

func (s *Server) naturalLanguageQuery(ctx context.Context, naturalQuery string) string {
	outcome, result, err := s.bridge.NaturalLanguage(ctx, naturalQuery)
	if err != nil {
		// A populated SQL result means translation succeeded and execution
		// failed, which reads like any other bad statement to the caller.
		if result.SQL != "" {
			return fmt.Sprintf("Error executing query: %v", err)
		}
		return fmt.Sprintf("Error processing natural language query: %v", err)
	}
	s.log.Debug("natural language query executed", slog.String("sql", result.SQL))
	return format.Outcome(outcome)
}

func (s *Server) listTables(ctx context.Context) string {
	names, err := s.bridge.ListTables(ctx)
	if err != nil {
		return fmt.Sprintf("Error listing tables: %v", err)
	}
	return format.TableList(names)
}

func (s *Server) describeTable(ctx context.Context, table string) string {
	info, err := s.bridge.DescribeTable(ctx, table)
	if err != nil {
		var notFound *bridge.NotFoundError
		if errors.As(err, &notFound) {
			return format.TableNotFound(notFound.Table, notFound.Available)
		}
		return fmt.Sprintf("Error describing table: %v", err)
	}
	return format.TableDescription(info.Name, info.Columns, info.RowCount)
}

func (s *Server) tableData(ctx context.Context, table string, limit int) string {
	rowSet, err := s.bridge.TableData(ctx, table, limit)
	if err != nil {
		var notFound *bridge.NotFoundError
		if errors.As(err, &notFound) {
			return format.TableNotFound(notFound.Table, notFound.Available)
		}
		return fmt.Sprintf("Error getting table data: %v", err)
	}
	return format.TableSample(table, rowSet)
}
