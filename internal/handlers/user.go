// internal/handlers/user.go
package handlers

import (
	"net/http"

	"styleforge-backend/internal/models"
	"styleforge-backend/internal/services"
	"styleforge-backend/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterUser creates the user record on first sign-in, applying the
// starting credit grant. Safe to call on every sign-in.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterUserRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	response, err := h.userService.RegisterUser(r.Context(), &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	utils.SendJSONResponse(w, http.StatusOK, response)
}
