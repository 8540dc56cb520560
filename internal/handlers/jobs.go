// internal/handlers/jobs.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"styleforge-backend/internal/services"
	apperrors "styleforge-backend/pkg/errors"
	"styleforge-backend/pkg/utils"
)

type JobsHandler struct {
	transformService services.TransformService
}

func NewJobsHandler(transformService services.TransformService) *JobsHandler {
	return &JobsHandler{
		transformService: transformService,
	}
}

// GetJobStatus serves the browser poller. The service falls back to a direct
// provider status check and then to the durable record when the registry
// entry is still queued.
func (h *JobsHandler) GetJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"Job ID is required",
		))
		return
	}

	response, err := h.transformService.JobStatus(r.Context(), jobID)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}
