package controllers

import (
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMyNotifications godoc
// @Summary List my notifications
// @Description Returns the caller's notification inbox, newest first, including entries addressed to their organizer profile.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse{data=helpers.PaginatedData}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications [get]
func (c *NotificationController) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)

	notifications, total, err := c.Service.ListMyNotifications(r.Context(), userID, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedData{
		Items:      notifications,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationID path string true "Notification ID (UUID)"
// @Success 204 "Marked read"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/{notificationID}/read [post]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := r.PathValue("notificationID")
	if !uuidRegex.MatchString(notificationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid notificationID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.MarkRead(r.Context(), notificationID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 204 "Marked read"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/read-all [post]
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.MarkAllRead(r.Context(), userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
