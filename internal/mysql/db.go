package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/sqlbridge/sqlbridge/internal/config"
)

// ErrUnreachable marks connection-level failures: the server cannot be
// reached or the credentials were rejected. Statement-level failures are
// reported as *StatementError instead.
var ErrUnreachable = errors.New("database unreachable")

// StatementError wraps a driver error for a statement that reached the server
// but failed to execute (syntax error, constraint violation, missing table).
type StatementError struct {
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement failed: %v", e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// Open creates the connection pool. The pool is lazy: no connection is
// established until the first operation, so the process starts even when the
// database is down. Every operation acquires a dedicated connection and
// releases it before returning.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Ping verifies that a fresh connection can be established.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}

func acquire(ctx context.Context, db *sql.DB) (*sql.Conn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return conn, nil
}
