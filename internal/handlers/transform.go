// internal/handlers/transform.go
package handlers

import (
	"io"
	"net/http"

	"styleforge-backend/internal/services"
	apperrors "styleforge-backend/pkg/errors"
	"styleforge-backend/pkg/utils"
)

type TransformHandler struct {
	transformService services.TransformService
}

func NewTransformHandler(transformService services.TransformService) *TransformHandler {
	return &TransformHandler{
		transformService: transformService,
	}
}

// ProcessTransform accepts a multipart form {image, userId, style} and
// submits the image to the generation queue.
func (h *TransformHandler) ProcessTransform(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(services.MaxImageSize + 1024); err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"Image file is required",
		))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrValidation,
			http.StatusBadRequest,
			"Image file is required",
		))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
	if err != nil {
		utils.SendErrorResponse(w, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to read uploaded file",
		))
		return
	}

	contentType := header.Header.Get("Content-Type")
	input := &services.TransformInput{
		UserID:      r.FormValue("userId"),
		Style:       r.FormValue("style"),
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}

	response, err := h.transformService.Submit(r.Context(), input)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}
