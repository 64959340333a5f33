// Package api exposes the bridge pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sqlbridge/sqlbridge/internal/bridge"
	"github.com/sqlbridge/sqlbridge/internal/config"
	"github.com/sqlbridge/sqlbridge/internal/mysql"
	"github.com/sqlbridge/sqlbridge/internal/nl2sql"
	"github.com/sqlbridge/sqlbridge/internal/observability"
)

// Bridge is the slice of the pipeline service the handlers need.
type Bridge interface {
	Health(ctx context.Context) error
	ExecuteSQL(ctx context.Context, statement string) (mysql.Outcome, error)
	NaturalLanguage(ctx context.Context, naturalQuery string) (mysql.Outcome, nl2sql.Result, error)
	Schema(ctx context.Context) (mysql.Schema, error)
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) (bridge.TableInfo, error)
}

type Dependencies struct {
	Logger            *slog.Logger
	Bridge            Bridge
	AuthMiddleware    func(http.Handler) http.Handler
	DependencyTimeout time.Duration
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Bridge.Health(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "DATABASE_UNREACHABLE", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "database": "connected"})
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	protected := http.NewServeMux()
	protected.HandleFunc("GET /schema", func(w http.ResponseWriter, r *http.Request) {
		handleSchema(deps, w, r)
	})
	protected.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(deps, w, r)
	})
	protected.HandleFunc("GET /tables", func(w http.ResponseWriter, r *http.Request) {
		handleListTables(deps, w, r)
	})
	protected.HandleFunc("GET /table/{table_name}", func(w http.ResponseWriter, r *http.Request) {
		handleGetTable(deps, w, r)
	})

	var protectedHandler http.Handler = protected
	if cfg.Auth.Required {
		if deps.AuthMiddleware == nil {
			if deps.Logger != nil {
				deps.Logger.Error("auth required but auth middleware missing")
			}
			protectedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(r.Context(), w, http.StatusInternalServerError, "AUTH_MIDDLEWARE_MISSING", "auth middleware is required by configuration", false, nil)
			})
		} else {
			protectedHandler = deps.AuthMiddleware(protectedHandler)
		}
	}
	mux.Handle("GET /schema", protectedHandler)
	mux.Handle("POST /query", protectedHandler)
	mux.Handle("GET /tables", protectedHandler)
	mux.Handle("GET /table/{table_name}", protectedHandler)

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// classifyError maps pipeline failures onto HTTP status, error code, and
// retryability. Unreachable database and model endpoint are the retryable
// cases; a rejected statement or missing table is not.
func classifyError(err error) (status int, code string, retryable bool) {
	var notFound *bridge.NotFoundError
	var stmtErr *mysql.StatementError
	switch {
	case errors.Is(err, mysql.ErrUnreachable):
		return http.StatusServiceUnavailable, "DATABASE_UNREACHABLE", true
	case errors.Is(err, nl2sql.ErrModelUnavailable):
		return http.StatusBadGateway, "MODEL_UNAVAILABLE", true
	case errors.Is(err, bridge.ErrTranslatorNotConfigured):
		return http.StatusServiceUnavailable, "TRANSLATOR_NOT_CONFIGURED", false
	case errors.As(err, &notFound):
		return http.StatusNotFound, "TABLE_NOT_FOUND", false
	case errors.As(err, &stmtErr):
		return http.StatusBadRequest, "STATEMENT_FAILED", false
	default:
		return http.StatusInternalServerError, "INTERNAL", false
	}
}

// notFoundContext surfaces the valid table names next to a NotFoundError.
func notFoundContext(err error) map[string]any {
	var notFound *bridge.NotFoundError
	if !errors.As(err, &notFound) {
		return nil
	}
	return map[string]any{"available_tables": notFound.Available}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
