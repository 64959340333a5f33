package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// Column mirrors one DESCRIBE row. Metadata is kept verbatim as MySQL reports
// it: Null is the literal "YES"/"NO", Default is nil when the column has no
// default.
type Column struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Null    string  `json:"null"`
	Key     string  `json:"key"`
	Default *string `json:"default"`
	Extra   string  `json:"extra"`
}

type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Schema is a snapshot of every table visible to the configured credentials,
// in the order the database reports them. It is produced fresh on every call
// and never cached.
type Schema struct {
	Tables []Table `json:"tables"`
}

// Introspector enumerates tables and columns from the live database.
type Introspector struct {
	db *sql.DB
}

func NewIntrospector(db *sql.DB) *Introspector {
	return &Introspector{db: db}
}

// TableNames lists every table in native order via SHOW TABLES.
func (i *Introspector) TableNames(ctx context.Context) ([]string, error) {
	conn, err := acquire(ctx, i.db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	return tableNames(ctx, conn)
}

// Columns describes one table via DESCRIBE, columns in native order.
func (i *Introspector) Columns(ctx context.Context, table string) ([]Column, error) {
	conn, err := acquire(ctx, i.db)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	return describeColumns(ctx, conn, table)
}

// RowCount reports the live row count of one table.
func (i *Introspector) RowCount(ctx context.Context, table string) (int64, error) {
	conn, err := acquire(ctx, i.db)
	if err != nil {
		return 0, err
	}
	defer func() { _ = conn.Close() }()

	statement := fmt.Sprintf("SELECT COUNT(*) FROM `%s`", table)
	var count int64
	if err := conn.QueryRowContext(ctx, statement).Scan(&count); err != nil {
		return 0, &StatementError{Statement: statement, Err: err}
	}
	return count, nil
}

// Snapshot walks SHOW TABLES and DESCRIBE on a single connection and returns
// the full schema description.
func (i *Introspector) Snapshot(ctx context.Context) (Schema, error) {
	conn, err := acquire(ctx, i.db)
	if err != nil {
		return Schema{}, err
	}
	defer func() { _ = conn.Close() }()

	names, err := tableNames(ctx, conn)
	if err != nil {
		return Schema{}, err
	}

	schema := Schema{Tables: make([]Table, 0, len(names))}
	for _, name := range names {
		columns, err := describeColumns(ctx, conn, name)
		if err != nil {
			return Schema{}, err
		}
		schema.Tables = append(schema.Tables, Table{Name: name, Columns: columns})
	}
	return schema, nil
}

func tableNames(ctx context.Context, conn *sql.Conn) ([]string, error) {
	const statement = "SHOW TABLES"
	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, &StatementError{Statement: statement, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &StatementError{Statement: statement, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &StatementError{Statement: statement, Err: err}
	}
	return names, nil
}

func describeColumns(ctx context.Context, conn *sql.Conn, table string) ([]Column, error) {
	statement := fmt.Sprintf("DESCRIBE `%s`", table)
	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, &StatementError{Statement: statement, Err: err}
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var (
			field, colType       string
			null, key, def, extra sql.NullString
		)
		if err := rows.Scan(&field, &colType, &null, &key, &def, &extra); err != nil {
			return nil, &StatementError{Statement: statement, Err: err}
		}
		column := Column{
			Name:  field,
			Type:  colType,
			Null:  null.String,
			Key:   key.String,
			Extra: extra.String,
		}
		if def.Valid {
			value := def.String
			column.Default = &value
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, &StatementError{Statement: statement, Err: err}
	}
	return columns, nil
}
