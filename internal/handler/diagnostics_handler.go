// internal/handler/diagnostics_handler.go
package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/unclebandit/paigham-backend/internal/db"
)

// DiagnosticsHandler serves the setup probe: connection status plus a
// per-table existence check. Used by setup tooling, not by the send
// pipeline.
type DiagnosticsHandler struct {
	DB *sql.DB
}

func (h *DiagnosticsHandler) Check(w http.ResponseWriter, r *http.Request) {
	database := map[string]interface{}{"connected": true}
	if err := h.DB.Ping(); err != nil {
		database["connected"] = false
		database["error"] = err.Error()
	}

	tables := map[string]bool{}
	if database["connected"] == true {
		checked, err := db.CheckTables(h.DB)
		if err != nil {
			database["error"] = err.Error()
		} else {
			tables = checked
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"database":  database,
		"tables":    tables,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
