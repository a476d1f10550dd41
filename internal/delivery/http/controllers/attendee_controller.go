package controllers

import (
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

type AttendeeController struct {
	Logger    *slog.Logger
	Service   domain.AttendeeService
	Bookmarks domain.BookmarkService
}

func NewAttendeeController(logger *slog.Logger, svc domain.AttendeeService, bookmarks domain.BookmarkService) *AttendeeController {
	return &AttendeeController{
		Logger:    logger,
		Service:   svc,
		Bookmarks: bookmarks,
	}
}

// RegisterForEvent godoc
// @Summary Register for an event
// @Description Registers the authenticated user for the event. Idempotent: 201 when a new registration is created, 200 when already registered.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=domain.Registration} "Already registered"
// @Success 201 {object} helpers.APIResponse{data=domain.Registration} "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: sold_out"
// @Failure 422 {object} helpers.APIResponse "error.code: too_late"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/register [post]
func (c *AttendeeController) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	reg, created, err := c.Service.RegisterForEvent(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if created {
		helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// CancelRegistration godoc
// @Summary Cancel a registration
// @Description Cancels the caller's registration. Idempotent: cancelling twice is a no-op.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 204 "Cancelled"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: locked"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID} [delete]
func (c *AttendeeController) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if !uuidRegex.MatchString(registrationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.CancelRegistration(r.Context(), registrationID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyRegistrations godoc
// @Summary List my registrations
// @Description Returns the caller's active registrations with their events.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=[]domain.RegistrationWithEvent}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/registrations [get]
func (c *AttendeeController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	regs, err := c.Service.ListMyRegistrations(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// ToggleBookmarkResponse is the success payload for POST /events/{eventID}/bookmark.
type ToggleBookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// ToggleBookmark godoc
// @Summary Toggle a bookmark
// @Description Adds the bookmark if absent, removes it if present.
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=controllers.ToggleBookmarkResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/bookmark [post]
func (c *AttendeeController) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	bookmarked, err := c.Bookmarks.ToggleBookmark(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ToggleBookmarkResponse{Bookmarked: bookmarked})
}

// ListMyBookmarks godoc
// @Summary List my bookmarks
// @Tags attendee
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=[]domain.BookmarkWithEvent}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/bookmarks [get]
func (c *AttendeeController) ListMyBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	bookmarks, err := c.Bookmarks.ListMyBookmarks(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookmarks)
}
