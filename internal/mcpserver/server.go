// Package mcpserver exposes the bridge pipeline as an MCP server over stdio.
// Every tool returns plain text and reports operational failures as text, so
// a dead database or model endpoint degrades to an error message the client
// can show, not a protocol failure.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sqlbridge/sqlbridge/internal/bridge"
	"github.com/sqlbridge/sqlbridge/internal/mysql"
	"github.com/sqlbridge/sqlbridge/internal/nl2sql"
)

// Bridge is the slice of the pipeline service the MCP surface needs.
type Bridge interface {
	ExecuteSQL(ctx context.Context, statement string) (mysql.Outcome, error)
	NaturalLanguage(ctx context.Context, naturalQuery string) (mysql.Outcome, nl2sql.Result, error)
	SchemaText(ctx context.Context) (string, error)
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) (bridge.TableInfo, error)
	TableData(ctx context.Context, table string, limit int) (mysql.RowSet, error)
}

type Config struct {
	Logger  *slog.Logger
	Bridge  Bridge
	Name    string
	Version string
}

func (cfg Config) Validate() error {
	if cfg.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if cfg.Bridge == nil {
		return fmt.Errorf("bridge is required")
	}
	if cfg.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

type Server struct {
	log       *slog.Logger
	bridge    Bridge
	mcpServer *mcp.Server
}

func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate mcp server config: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		log:       cfg.Logger,
		bridge:    cfg.Bridge,
		mcpServer: mcpServer,
	}
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	s.registerResources()
	s.registerPrompts()
	return s, nil
}

// Run serves the MCP protocol on stdio until ctx is cancelled. Stdout belongs
// to the protocol; all logging must go to stderr.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("starting mcp server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
