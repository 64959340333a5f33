package mysql

import (
	"context"
	"database/sql"
	"strings"
)

// Row is a single record keyed by column name.
type Row map[string]any

// RowSet is the result of a read statement. Columns preserves the order the
// driver reported them in; the Row maps alone would lose it.
type RowSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Outcome is the result of executing one statement: a RowSet for reads, an
// affected-row count for everything else.
type Outcome struct {
	Read     bool
	RowSet   RowSet
	Affected int64
}

// IsRead classifies a statement lexically: trimmed, upper-cased text starting
// with SELECT is a read, everything else is a write. This deliberately
// misclassifies CTEs (WITH ... SELECT) and multi-statement strings; those are
// then executed on the write path and report an affected count.
func IsRead(statement string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(statement)), "SELECT")
}

// Executor runs one SQL statement per call on a dedicated connection.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Execute runs the statement as-is: no splitting, no parameterization. The
// connection is released on every exit path.
func (e *Executor) Execute(ctx context.Context, statement string) (Outcome, error) {
	conn, err := acquire(ctx, e.db)
	if err != nil {
		return Outcome{}, err
	}
	defer func() { _ = conn.Close() }()

	if IsRead(statement) {
		rowSet, err := queryRowSet(ctx, conn, statement)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Read: true, RowSet: rowSet}, nil
	}

	result, err := conn.ExecContext(ctx, statement)
	if err != nil {
		return Outcome{}, &StatementError{Statement: statement, Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Outcome{}, &StatementError{Statement: statement, Err: err}
	}
	return Outcome{Affected: affected}, nil
}

func queryRowSet(ctx context.Context, conn *sql.Conn, statement string) (RowSet, error) {
	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return RowSet{}, &StatementError{Statement: statement, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return RowSet{}, &StatementError{Statement: statement, Err: err}
	}

	rowSet := RowSet{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return RowSet{}, &StatementError{Statement: statement, Err: err}
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		rowSet.Rows = append(rowSet.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return RowSet{}, &StatementError{Statement: statement, Err: err}
	}
	return rowSet, nil
}

// normalizeValue decodes []byte cells to string; the MySQL driver reports
// text and numeric columns as raw bytes.
func normalizeValue(value any) any {
	if raw, ok := value.([]byte); ok {
		return string(raw)
	}
	return value
}
