package api

import (
	"net/http"
)

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	schema, err := deps.Bridge.Schema(r.Context())
	if err != nil {
		status, code, retryable := classifyError(err)
		writeError(r.Context(), w, status, code, err.Error(), retryable, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": schema.Tables})
}

func handleListTables(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	names, err := deps.Bridge.ListTables(r.Context())
	if err != nil {
		status, code, retryable := classifyError(err)
		writeError(r.Context(), w, status, code, err.Error(), retryable, nil)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": names})
}

func handleGetTable(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table_name")
	info, err := deps.Bridge.DescribeTable(r.Context(), table)
	if err != nil {
		status, code, retryable := classifyError(err)
		extra := notFoundContext(err)
		writeError(r.Context(), w, status, code, err.Error(), retryable, extra)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
