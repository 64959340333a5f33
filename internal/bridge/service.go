// Package bridge is the pipeline both transport shells share: schema
// introspection, natural-language translation, statement execution, and the
// table lookup helpers. Each operation is a single request-scoped sequence;
// nothing is cached or retried, and no state outlives a call.
package bridge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sqlbridge/sqlbridge/internal/format"
	"github.com/sqlbridge/sqlbridge/internal/mysql"
	"github.com/sqlbridge/sqlbridge/internal/nl2sql"
	"github.com/sqlbridge/sqlbridge/internal/observability"
)

// ErrTranslatorNotConfigured is returned by NaturalLanguage when the service
// was built without a translator.
var ErrTranslatorNotConfigured = errors.New("translator is not configured")

// NotFoundError reports a named table that does not exist. It is a normal,
// non-fatal outcome and carries the valid names for the caller to report.
type NotFoundError struct {
	Table     string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.Table)
}

// TableInfo is the structured result of DescribeTable.
type TableInfo struct {
	Name     string         `json:"table"`
	RowCount int64          `json:"rows"`
	Columns  []mysql.Column `json:"columns"`
}

type Config struct {
	DB         *sql.DB
	Translator nl2sql.Translator
	Logger     *slog.Logger
}

func (cfg Config) Validate() error {
	if cfg.DB == nil {
		return fmt.Errorf("database is required")
	}
	if cfg.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

type Service struct {
	executor     *mysql.Executor
	introspector *mysql.Introspector
	translator   nl2sql.Translator
	db           *sql.DB
	log          *slog.Logger
}

func New(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate bridge config: %w", err)
	}
	return &Service{
		executor:     mysql.NewExecutor(cfg.DB),
		introspector: mysql.NewIntrospector(cfg.DB),
		translator:   cfg.Translator,
		db:           cfg.DB,
		log:          cfg.Logger,
	}, nil
}

// Health verifies that a fresh database connection can be established.
func (s *Service) Health(ctx context.Context) error {
	return mysql.Ping(ctx, s.db)
}

// ExecuteSQL runs one literal statement and classifies the outcome.
func (s *Service) ExecuteSQL(ctx context.Context, statement string) (mysql.Outcome, error) {
	kind := "write"
	if mysql.IsRead(statement) {
		kind = "read"
	}
	outcome, err := s.executor.Execute(ctx, statement)
	observability.ObserveStatement(kind, err)
	if err != nil {
		s.log.Debug("statement failed", slog.String("kind", kind), slog.Any("error", err))
		return mysql.Outcome{}, err
	}
	s.log.Debug("statement executed", slog.String("kind", kind), slog.Bool("read", outcome.Read))
	return outcome, nil
}

// NaturalLanguage runs the translation pipeline: snapshot the schema, build
// the prompt, call the model, execute the extracted SQL. The translation
// result is returned even when execution fails so callers can echo the
// generated statement. A schema snapshot failure aborts the pipeline.
func (s *Service) NaturalLanguage(ctx context.Context, naturalQuery string) (mysql.Outcome, nl2sql.Result, error) {
	if s.translator == nil {
		return mysql.Outcome{}, nl2sql.Result{}, ErrTranslatorNotConfigured
	}

	schema, err := s.introspector.Snapshot(ctx)
	if err != nil {
		return mysql.Outcome{}, nl2sql.Result{}, fmt.Errorf("snapshot schema: %w", err)
	}

	start := time.Now()
	result, err := s.translator.Translate(ctx, nl2sql.Request{
		SchemaText:      format.SchemaText(schema),
		NaturalLanguage: naturalQuery,
	})
	if err != nil {
		observability.IncrementTranslationFailure()
		return mysql.Outcome{}, nl2sql.Result{}, err
	}
	observability.ObserveTranslation(time.Since(start))
	s.log.Debug("translated natural language query", slog.String("sql", result.SQL), slog.String("model", result.Model))

	outcome, err := s.ExecuteSQL(ctx, result.SQL)
	if err != nil {
		return mysql.Outcome{}, result, err
	}
	return outcome, result, nil
}

// Schema takes a fresh snapshot of the full schema description.
func (s *Service) Schema(ctx context.Context) (mysql.Schema, error) {
	return s.introspector.Snapshot(ctx)
}

// SchemaText renders a fresh schema snapshot as plain text.
func (s *Service) SchemaText(ctx context.Context) (string, error) {
	schema, err := s.introspector.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return format.SchemaText(schema), nil
}

// ListTables lists table names in native order.
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	return s.introspector.TableNames(ctx)
}

// DescribeTable returns columns and a live row count for one table. A missing
// table yields a NotFoundError with the valid names; no DESCRIBE is issued in
// that case.
func (s *Service) DescribeTable(ctx context.Context, table string) (TableInfo, error) {
	names, err := s.introspector.TableNames(ctx)
	if err != nil {
		return TableInfo{}, err
	}
	if !contains(names, table) {
		return TableInfo{}, &NotFoundError{Table: table, Available: names}
	}

	columns, err := s.introspector.Columns(ctx, table)
	if err != nil {
		return TableInfo{}, err
	}
	rowCount, err := s.introspector.RowCount(ctx, table)
	if err != nil {
		return TableInfo{}, err
	}
	return TableInfo{Name: table, RowCount: rowCount, Columns: columns}, nil
}

// TableData fetches up to limit sample rows from one table. The limit
// defaults to 10. Missing tables are reported like DescribeTable.
func (s *Service) TableData(ctx context.Context, table string, limit int) (mysql.RowSet, error) {
	names, err := s.introspector.TableNames(ctx)
	if err != nil {
		return mysql.RowSet{}, err
	}
	if !contains(names, table) {
		return mysql.RowSet{}, &NotFoundError{Table: table, Available: names}
	}

	if limit <= 0 {
		limit = 10
	}
	outcome, err := s.ExecuteSQL(ctx, fmt.Sprintf("SELECT * FROM `%s` LIMIT %d", table, limit))
	if err != nil {
		return mysql.RowSet{}, err
	}
	return outcome.RowSet, nil
}

func contains(names []string, name string) bool {
	for _, candidate := range names {
		if candidate == name {
			return true
		}
	}
	return false
}
