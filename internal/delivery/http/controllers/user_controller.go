package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// UpdateProfileRequest is the request body for PATCH /me.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

func (r *UpdateProfileRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	return errs
}

// ChangePasswordRequest is the request body for POST /me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() []string {
	var errs []string
	if r.CurrentPassword == "" {
		errs = append(errs, "current_password is required")
	}
	if len(r.NewPassword) < 8 {
		errs = append(errs, "new_password must be at least 8 characters")
	}
	return errs
}

// GetMyProfile godoc
// @Summary Get my account profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=domain.User}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [get]
func (c *UserController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	user, err := c.Service.GetMyProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMyProfile godoc
// @Summary Update my account profile
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} helpers.APIResponse{data=domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [patch]
func (c *UserController) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.Service.UpdateMyProfile(r.Context(), userID, req.FullName)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change my password
// @Description Verifies the current password before storing the new one.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ChangePasswordRequest true "Password change"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/password [post]
func (c *UserController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	if err := c.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
