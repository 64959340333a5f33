package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sqlbridge/sqlbridge/internal/mysql"
	"github.com/sqlbridge/sqlbridge/internal/nl2sql"
)

type queryRequest struct {
	Query           string `json:"query"`
	NaturalLanguage bool   `json:"natural_language"`
}

type queryResponse struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Message  string `json:"message,omitempty"`
	SQLQuery string `json:"sql_query,omitempty"`
}

// handleQuery runs one statement, literal or natural-language. Pipeline
// failures keep the queryResponse shape so the natural-language path can echo
// the generated statement alongside the failure.
func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "request body must be valid JSON", false, nil)
		return
	}
	if req.Query == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "query is required", false, nil)
		return
	}

	var (
		outcome  mysql.Outcome
		sqlQuery string
		err      error
	)
	if req.NaturalLanguage {
		var result nl2sql.Result
		outcome, result, err = deps.Bridge.NaturalLanguage(r.Context(), req.Query)
		sqlQuery = result.SQL
	} else {
		outcome, err = deps.Bridge.ExecuteSQL(r.Context(), req.Query)
	}
	if err != nil {
		status, code, _ := classifyError(err)
		if deps.Logger != nil {
			deps.Logger.WarnContext(r.Context(), "query failed",
				slog.String("error_code", code),
				slog.Any("error", err),
			)
		}
		writeJSON(w, status, queryResponse{Success: false, Message: err.Error(), SQLQuery: sqlQuery})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Success:  true,
		Data:     outcomeData(outcome),
		SQLQuery: sqlQuery,
	})
}

func outcomeData(outcome mysql.Outcome) any {
	if outcome.Read {
		rows := outcome.RowSet.Rows
		if rows == nil {
			rows = []mysql.Row{}
		}
		return map[string]any{
			"columns": outcome.RowSet.Columns,
			"rows":    rows,
			"count":   len(rows),
		}
	}
	return map[string]any{"affected_rows": outcome.Affected}
}
