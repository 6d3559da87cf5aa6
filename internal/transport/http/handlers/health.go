package http_handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/contacthub/contacthub/internal/metrics"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz handles GET /healthz. Liveness only, no dependencies touched.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Healthchecker handles GET /api/healthchecker and verifies the database
// answers a trivial query.
func (h *HealthHandler) Healthchecker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if h.db != nil {
		var one int
		if err := h.db.QueryRowContext(r.Context(), "SELECT 1").Scan(&one); err != nil || one != 1 {
			metrics.SetDependencyHealth("postgres", false)
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"message": "Error connecting to the database",
			})
			return
		}
		metrics.SetDependencyHealth("postgres", true)
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Welcome! API is up and running."})
}
