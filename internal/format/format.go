// Package format renders query outcomes and schema metadata as text for the
// tool-facing transport. The structured transport returns data directly and
// does not use these renderings.
package format

import (
	"fmt"
	"strings"

	"github.com/sqlbridge/sqlbridge/internal/mysql"
)

const (
	// NoResults is the literal message for a read that returned zero rows.
	// An empty result set is a valid outcome, not an error.
	NoResults = "Query executed successfully. No results returned."
)

// Outcome renders an execution outcome: a Markdown table for reads with rows,
// the no-results message for empty reads, an affected-count line for writes.
func Outcome(outcome mysql.Outcome) string {
	if !outcome.Read {
		return fmt.Sprintf("Query executed successfully. %d rows affected.", outcome.Affected)
	}
	if len(outcome.RowSet.Rows) == 0 {
		return NoResults
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query Results (%d rows):\n\n", len(outcome.RowSet.Rows))
	writeMarkdownTable(&b, outcome.RowSet)
	return b.String()
}

// TableList renders the numbered list of table names.
func TableList(names []string) string {
	if len(names) == 0 {
		return "No tables found in the database."
	}
	var b strings.Builder
	b.WriteString("Tables in the database:\n\n")
	for i, name := range names {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return b.String()
}

// TableDescription renders one table's columns and live row count.
func TableDescription(table string, columns []mysql.Column, rowCount int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table: %s\n", table)
	fmt.Fprintf(&b, "Rows: %d\n\n", rowCount)
	b.WriteString("Columns:\n\n")
	for _, column := range columns {
		fmt.Fprintf(&b, "- %s: %s\n", column.Name, column.Type)
		fmt.Fprintf(&b, "  - Null: %s\n", column.Null)
		fmt.Fprintf(&b, "  - Key: %s\n", orNone(column.Key))
		defaultValue := "None"
		if column.Default != nil {
			defaultValue = *column.Default
		}
		fmt.Fprintf(&b, "  - Default: %s\n", defaultValue)
		fmt.Fprintf(&b, "  - Extra: %s\n\n", orNone(column.Extra))
	}
	return b.String()
}

// TableSample renders sample rows from one table.
func TableSample(table string, rowSet mysql.RowSet) string {
	if len(rowSet.Rows) == 0 {
		return fmt.Sprintf("No data found in table '%s'.", table)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sample data from %s (showing %d rows):\n\n", table, len(rowSet.Rows))
	writeMarkdownTable(&b, rowSet)
	return b.String()
}

// TableNotFound renders the non-fatal missing-table message with the list of
// valid names.
func TableNotFound(table string, available []string) string {
	return fmt.Sprintf("Table '%s' not found. Available tables: %s", table, strings.Join(available, ", "))
}

// SchemaText flattens a schema snapshot into the plain-text description that
// feeds the translation prompt.
func SchemaText(schema mysql.Schema) string {
	var b strings.Builder
	b.WriteString("Database Schema:\n\n")
	for _, table := range schema.Tables {
		fmt.Fprintf(&b, "Table: %s\n", table.Name)
		for _, column := range table.Columns {
			nullability := "NOT NULL"
			if column.Null == "YES" {
				nullability = "NULL"
			}
			fmt.Fprintf(&b, "  - %s: %s %s", column.Name, column.Type, nullability)
			if column.Key != "" {
				fmt.Fprintf(&b, " %s", column.Key)
			}
			if column.Default != nil && *column.Default != "" {
				fmt.Fprintf(&b, " DEFAULT %s", *column.Default)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// writeMarkdownTable writes a header row in the RowSet's column order, a
// separator of dash runs sized to each header, and one row per record. Values
// containing '|' or newlines are written as-is; malformed rendering for such
// values is an accepted limitation.
func writeMarkdownTable(b *strings.Builder, rowSet mysql.RowSet) {
	headers := rowSet.Columns

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	separators := make([]string, len(headers))
	for i, header := range headers {
		separators[i] = strings.Repeat("-", len(header))
	}
	b.WriteString("|" + strings.Join(separators, "|") + "|\n")

	for _, row := range rowSet.Rows {
		cells := make([]string, len(headers))
		for i, header := range headers {
			cells[i] = cell(row[header])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func cell(value any) string {
	if value == nil {
		return "NULL"
	}
	return fmt.Sprint(value)
}

func orNone(value string) string {
	if value == "" {
		return "None"
	}
	return value
}
