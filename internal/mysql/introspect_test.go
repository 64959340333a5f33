package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func describeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
}

func TestTableNamesPreservesNativeOrder(t *testing.T) {
	db, mock := newSQLMock(t)
	introspector := NewIntrospector(db)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_test_db"}).
			AddRow("users").
			AddRow("orders").
			AddRow("audit_log"))

	names, err := introspector.TableNames(context.Background())
	if err != nil {
		t.Fatalf("TableNames() error = %v", err)
	}
	want := []string{"users", "orders", "audit_log"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	assertSQLMock(t, mock)
}

func TestColumnsKeepsMetadataVerbatim(t *testing.T) {
	db, mock := newSQLMock(t)
	introspector := NewIntrospector(db)

	mock.ExpectQuery(regexp.QuoteMeta("DESCRIBE `users`")).
		WillReturnRows(describeRows().
			AddRow("id", "int(11)", "NO", "PRI", nil, "auto_increment").
			AddRow("email", "varchar(255)", "YES", "", "none@example.com", ""))

	columns, err := introspector.Columns(context.Background(), "users")
	if err != nil {
		t.Fatalf("Columns() error = %v", err)
	}
	if len(columns) != 2 {
		t.Fatalf("columns = %v", columns)
	}
	id := columns[0]
	if id.Name != "id" || id.Type != "int(11)" || id.Null != "NO" || id.Key != "PRI" || id.Extra != "auto_increment" {
		t.Fatalf("id column = %+v", id)
	}
	if id.Default != nil {
		t.Fatalf("id.Default = %v, want nil", *id.Default)
	}
	email := columns[1]
	if email.Default == nil || *email.Default != "none@example.com" {
		t.Fatalf("email.Default = %v", email.Default)
	}
	assertSQLMock(t, mock)
}

func TestSnapshotWalksEveryTable(t *testing.T) {
	db, mock := newSQLMock(t)
	introspector := NewIntrospector(db)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_test_db"}).
			AddRow("users").
			AddRow("orders"))
	mock.ExpectQuery(regexp.QuoteMeta("DESCRIBE `users`")).
		WillReturnRows(describeRows().AddRow("id", "int(11)", "NO", "PRI", nil, ""))
	mock.ExpectQuery(regexp.QuoteMeta("DESCRIBE `orders`")).
		WillReturnRows(describeRows().AddRow("total", "decimal(10,2)", "YES", "", nil, ""))

	schema, err := introspector.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(schema.Tables) != 2 {
		t.Fatalf("tables = %v", schema.Tables)
	}
	if schema.Tables[0].Name != "users" || schema.Tables[1].Name != "orders" {
		t.Fatalf("table order = %q, %q", schema.Tables[0].Name, schema.Tables[1].Name)
	}
	if schema.Tables[1].Columns[0].Type != "decimal(10,2)" {
		t.Fatalf("orders column = %+v", schema.Tables[1].Columns[0])
	}
	assertSQLMock(t, mock)
}

func TestSnapshotEmptyDatabase(t *testing.T) {
	db, mock := newSQLMock(t)
	introspector := NewIntrospector(db)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"Tables_in_test_db"}))

	schema, err := introspector.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(schema.Tables) != 0 {
		t.Fatalf("tables = %v, want none", schema.Tables)
	}
	assertSQLMock(t, mock)
}

func TestRowCount(t *testing.T) {
	db, mock := newSQLMock(t)
	introspector := NewIntrospector(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(42)))

	count, err := introspector.RowCount(context.Background(), "users")
	if err != nil {
		t.Fatalf("RowCount() error = %v", err)
	}
	if count != 42 {
		t.Fatalf("count = %d, want 42", count)
	}
	assertSQLMock(t, mock)
}

func TestSnapshotStatementFailure(t *testing.T) {
	db, mock := newSQLMock(t)
	introspector := NewIntrospector(db)

	mock.ExpectQuery(regexp.QuoteMeta("SHOW TABLES")).
		WillReturnError(errors.New("access denied"))

	_, err := introspector.Snapshot(context.Background())
	var stmtErr *StatementError
	if !errors.As(err, &stmtErr) {
		t.Fatalf("error = %v, want *StatementError", err)
	}
	assertSQLMock(t, mock)
}
