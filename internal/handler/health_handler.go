package handler

import (
	"net/http"

	"go-api-starter/internal/database"
	"go-api-starter/internal/model"
)

type HealthHandler struct {
	db *database.DB
}

func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings the database; a failing ping turns the whole probe red.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := model.HealthStatus{Status: "ok", Database: "ok"}
	code := http.StatusOK

	if err := h.db.Health(r.Context()); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	writeSuccess(w, code, status, nil)
}
