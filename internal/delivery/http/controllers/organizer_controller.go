package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

type OrganizerController struct {
	Logger  *slog.Logger
	Service domain.OrganizerService
}

func NewOrganizerController(logger *slog.Logger, svc domain.OrganizerService) *OrganizerController {
	return &OrganizerController{
		Logger:  logger,
		Service: svc,
	}
}

// ApplyRequest is the request body for POST /organizer/apply.
type ApplyRequest struct {
	BusinessName string `json:"business_name"`
	Description  string `json:"description"`
	Website      string `json:"website"`
}

func (r *ApplyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.BusinessName) == "" {
		errs = append(errs, "business_name is required")
	}
	return errs
}

// Apply godoc
// @Summary Apply to become an organizer
// @Description Creates a pending organizer profile for the caller. A rejected applicant may re-apply; pending, approved, and blocked profiles may not.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ApplyRequest true "Organizer application"
// @Success 201 {object} helpers.APIResponse{data=domain.Organizer}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/apply [post]
func (c *OrganizerController) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req ApplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	org, err := c.Service.Apply(r.Context(), userID, req.BusinessName, req.Description, req.Website)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, org)
}

// GetMyProfile godoc
// @Summary Get my organizer profile
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=domain.Organizer}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/profile [get]
func (c *OrganizerController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	org, err := c.Service.GetMyProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, org)
}
