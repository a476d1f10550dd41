package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// ListOrganizers godoc
// @Summary List organizer profiles
// @Description Lists organizer profiles, optionally filtered by status (pending, approved, rejected, blocked).
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse{data=helpers.PaginatedData}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers [get]
func (c *AdminController) ListOrganizers(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	status := r.URL.Query().Get("status")

	orgs, total, err := c.Service.ListOrganizers(r.Context(), status, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedData{
		Items:      orgs,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ApproveOrganizer godoc
// @Summary Approve an organizer
// @Description Approves a pending organizer profile and grants the owner the organizer role.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 204 "Approved"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{organizerID}/approve [post]
func (c *AdminController) ApproveOrganizer(w http.ResponseWriter, r *http.Request) {
	c.moderateOrganizer(w, r, func(ctx context.Context, adminID, organizerID string) error {
		return c.Service.ApproveOrganizer(ctx, adminID, organizerID)
	})
}

// ModerationRequest carries the optional reason for a moderation action.
type ModerationRequest struct {
	Reason string `json:"reason"`
}

// RejectOrganizer godoc
// @Summary Reject an organizer application
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer ID (UUID)"
// @Param body body controllers.ModerationRequest false "Optional reason"
// @Success 204 "Rejected"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{organizerID}/reject [post]
func (c *AdminController) RejectOrganizer(w http.ResponseWriter, r *http.Request) {
	organizerID := r.PathValue("organizerID")
	if !uuidRegex.MatchString(organizerID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid organizerID")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	if err := c.Service.RejectOrganizer(r.Context(), adminID, organizerID, req.Reason); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BlockOrganizer godoc
// @Summary Block an organizer
// @Description Blocks an organizer and revokes the owner's organizer role.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer ID (UUID)"
// @Success 204 "Blocked"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{organizerID}/block [post]
func (c *AdminController) BlockOrganizer(w http.ResponseWriter, r *http.Request) {
	c.moderateOrganizer(w, r, func(ctx context.Context, adminID, organizerID string) error {
		return c.Service.BlockOrganizer(ctx, adminID, organizerID)
	})
}

func (c *AdminController) moderateOrganizer(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, adminID, organizerID string) error) {
	organizerID := r.PathValue("organizerID")
	if !uuidRegex.MatchString(organizerID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid organizerID")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := op(r.Context(), adminID, organizerID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers godoc
// @Summary List user accounts
// @Description Lists users, filterable by a name/email search, role, and status (active, blocked).
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email substring"
// @Param role query string false "Role filter"
// @Param status query string false "active or blocked"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse{data=helpers.PaginatedData}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	q := r.URL.Query()
	filter := domain.UserFilter{
		Query:  q.Get("search"),
		Role:   q.Get("role"),
		Status: q.Get("status"),
	}

	users, total, err := c.Service.ListUsers(r.Context(), filter, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedData{
		Items:      users,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// BlockUser godoc
// @Summary Block a user account
// @Description Suspends the account; a blocked user cannot log in. Blocking an already blocked user is a no-op.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Param body body controllers.ModerationRequest false "Optional reason"
// @Success 204 "Blocked"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID}/block [post]
func (c *AdminController) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !uuidRegex.MatchString(userID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid userID")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	if err := c.Service.BlockUser(r.Context(), adminID, userID, req.Reason); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnblockUser godoc
// @Summary Unblock a user account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 204 "Unblocked"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/users/{userID}/unblock [post]
func (c *AdminController) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !uuidRegex.MatchString(userID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid userID")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.UnblockUser(r.Context(), adminID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FeatureEvent godoc
// @Summary Feature an event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "Featured"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/feature [post]
func (c *AdminController) FeatureEvent(w http.ResponseWriter, r *http.Request) {
	c.setFeatured(w, r, true)
}

// UnfeatureEvent godoc
// @Summary Unfeature an event
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "Unfeatured"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/unfeature [post]
func (c *AdminController) UnfeatureEvent(w http.ResponseWriter, r *http.Request) {
	c.setFeatured(w, r, false)
}

func (c *AdminController) setFeatured(w http.ResponseWriter, r *http.Request, featured bool) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.SetEventFeatured(r.Context(), adminID, eventID, featured); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveEvent godoc
// @Summary Remove an event
// @Description Removes an event regardless of schedule, cancelling its registrations and notifying the organizer and active attendees.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.ModerationRequest false "Optional reason"
// @Success 204 "Removed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [delete]
func (c *AdminController) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	if err := c.Service.RemoveEvent(r.Context(), adminID, eventID, req.Reason); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPlatformAnalytics godoc
// @Summary Platform-wide analytics
// @Description User, organizer, event, and registration totals plus daily registrations for the last 30 days.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=domain.PlatformAnalytics}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/analytics [get]
func (c *AdminController) GetPlatformAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := c.Service.GetPlatformAnalytics(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, analytics)
}

// ListAuditLogs godoc
// @Summary List audit log entries
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse{data=helpers.PaginatedData}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/audit-logs [get]
func (c *AdminController) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)

	logs, total, err := c.Service.ListAuditLogs(r.Context(), params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedData{
		Items:      logs,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}
