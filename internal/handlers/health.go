// internal/handlers/health.go
package handlers

import (
	"net/http"
	"time"

	"styleforge-backend/internal/models"
	"styleforge-backend/pkg/utils"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:  "healthy",
		Message: "Server is running",
		Time:    time.Now().UTC(),
	}
	utils.SendJSONResponse(w, http.StatusOK, response)
}
