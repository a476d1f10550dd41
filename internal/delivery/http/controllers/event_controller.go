package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger bodies spill to temp files.
const maxMultipartMemory = 32 << 20

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a draft event for the caller's approved organizer profile. Multipart form: event fields plus a required banner file and up to 10 gallery files.
// @Tags organizer
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param short_description formData string true "Short description"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param tags formData string false "Comma-separated tags"
// @Param location_type formData string true "online or offline"
// @Param location_address formData string false "Address (offline events)"
// @Param event_url formData string false "Event URL (online events)"
// @Param start_date formData string true "RFC3339 start"
// @Param end_date formData string true "RFC3339 end"
// @Param ticket_limit formData int false "Ticket limit (0 = unlimited)"
// @Param banner formData file true "Banner image"
// @Param gallery formData file false "Gallery images"
// @Success 201 {object} helpers.APIResponse{data=domain.Event}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}

	event, err := eventFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	banner, gallery, err := mediaFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	defer closeUploads(banner, gallery)

	created, err := c.Service.CreateEvent(r.Context(), userID, event, banner, gallery)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, created)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially updates an owned event. Only fields present in the form change; a banner file replaces the current banner, gallery files append. Locked within 24 hours of start.
// @Tags organizer
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: locked"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
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
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}

	upd, err := updateFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	banner, gallery, err := optionalMediaFromForm(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	defer closeUploads(banner, gallery)

	updated, err := c.Service.UpdateEvent(r.Context(), userID, eventID, upd, banner, gallery)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an owned event and notifies active attendees. Locked within 24 hours of start.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "Deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: locked"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
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

	if err := c.Service.DeleteEvent(r.Context(), userID, eventID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateEventRequest is the request body for POST /organizer/events/{eventID}/duplicate.
type DuplicateEventRequest struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// DuplicateEvent godoc
// @Summary Duplicate an event
// @Description Creates a draft copy of an owned event, reusing its media. Optional new start/end dates.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.DuplicateEventRequest false "Optional new dates"
// @Success 201 {object} helpers.APIResponse{data=domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID}/duplicate [post]
func (c *EventController) DuplicateEvent(w http.ResponseWriter, r *http.Request) {
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

	var req DuplicateEventRequest
	if r.ContentLength > 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	dup, err := c.Service.DuplicateEvent(r.Context(), userID, eventID, req.StartDate, req.EndDate)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, dup)
}

// PublishEvent godoc
// @Summary Publish an event
// @Description Makes a future-dated owned event publicly visible.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: too_late"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID}/publish [post]
func (c *EventController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	c.setIntent(w, r, c.Service.PublishEvent)
}

// UnpublishEvent godoc
// @Summary Unpublish an event
// @Description Returns a future-dated owned event to draft.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: too_late"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID}/unpublish [post]
func (c *EventController) UnpublishEvent(w http.ResponseWriter, r *http.Request) {
	c.setIntent(w, r, c.Service.UnpublishEvent)
}

func (c *EventController) setIntent(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, eventID string) (*domain.Event, error)) {
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

	event, err := op(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListMyEvents godoc
// @Summary List my events
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse{data=[]domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	events, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListEventRegistrations godoc
// @Summary List registrations for an owned event
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=[]domain.RegistrationWithUser}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID}/registrations [get]
func (c *EventController) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
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

	regs, err := c.Service.ListEventRegistrations(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}

// GetEventAnalytics godoc
// @Summary Analytics for an owned event
// @Description Totals, conversion rate, and daily views/registrations for the last 30 days.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=domain.EventAnalytics}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/events/{eventID}/analytics [get]
func (c *EventController) GetEventAnalytics(w http.ResponseWriter, r *http.Request) {
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

	analytics, err := c.Service.GetEventAnalytics(r.Context(), userID, eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, analytics)
}

func eventFromForm(r *http.Request) (*domain.Event, error) {
	start, err := parseFormTime(r.FormValue("start_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseFormTime(r.FormValue("end_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	ticketLimit := 0
	if s := r.FormValue("ticket_limit"); s != "" {
		ticketLimit, err = strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ticket_limit: %w", err)
		}
	}
	return &domain.Event{
		Title:            strings.TrimSpace(r.FormValue("title")),
		ShortDescription: strings.TrimSpace(r.FormValue("short_description")),
		Description:      r.FormValue("description"),
		Category:         strings.TrimSpace(r.FormValue("category")),
		Tags:             parseTags(r.FormValue("tags")),
		LocationType:     strings.TrimSpace(r.FormValue("location_type")),
		LocationAddress:  strings.TrimSpace(r.FormValue("location_address")),
		EventURL:         strings.TrimSpace(r.FormValue("event_url")),
		StartDate:        start,
		EndDate:          end,
		TicketLimit:      ticketLimit,
	}, nil
}

// updateFromForm turns only the form keys actually present into update fields,
// so an absent key leaves the stored value untouched.
func updateFromForm(r *http.Request) (domain.EventUpdate, error) {
	var upd domain.EventUpdate
	form := r.MultipartForm.Value

	setString := func(key string, dest **string) {
		if vs, ok := form[key]; ok && len(vs) > 0 {
			v := strings.TrimSpace(vs[0])
			*dest = &v
		}
	}
	setString("title", &upd.Title)
	setString("short_description", &upd.ShortDescription)
	setString("description", &upd.Description)
	setString("category", &upd.Category)
	setString("location_type", &upd.LocationType)
	setString("location_address", &upd.LocationAddress)
	setString("event_url", &upd.EventURL)

	if vs, ok := form["tags"]; ok && len(vs) > 0 {
		upd.Tags = parseTags(vs[0])
	}
	if vs, ok := form["start_date"]; ok && len(vs) > 0 {
		t, err := parseFormTime(vs[0])
		if err != nil {
			return upd, fmt.Errorf("invalid start_date: %w", err)
		}
		upd.StartDate = &t
	}
	if vs, ok := form["end_date"]; ok && len(vs) > 0 {
		t, err := parseFormTime(vs[0])
		if err != nil {
			return upd, fmt.Errorf("invalid end_date: %w", err)
		}
		upd.EndDate = &t
	}
	if vs, ok := form["ticket_limit"]; ok && len(vs) > 0 {
		n, err := strconv.Atoi(vs[0])
		if err != nil {
			return upd, fmt.Errorf("invalid ticket_limit: %w", err)
		}
		upd.TicketLimit = &n
	}
	return upd, nil
}

func mediaFromForm(r *http.Request) (*domain.FileUpload, []*domain.FileUpload, error) {
	banner, gallery, err := optionalMediaFromForm(r)
	if err != nil {
		return nil, nil, err
	}
	if banner == nil {
		return nil, nil, fmt.Errorf("banner file is required")
	}
	return banner, gallery, nil
}

func optionalMediaFromForm(r *http.Request) (*domain.FileUpload, []*domain.FileUpload, error) {
	var banner *domain.FileUpload
	if fhs := r.MultipartForm.File["banner"]; len(fhs) > 0 {
		f, err := openUpload(fhs[0])
		if err != nil {
			return nil, nil, err
		}
		banner = f
	}
	var gallery []*domain.FileUpload
	for _, fh := range r.MultipartForm.File["gallery"] {
		f, err := openUpload(fh)
		if err != nil {
			closeUploads(banner, gallery)
			return nil, nil, err
		}
		gallery = append(gallery, f)
	}
	return banner, gallery, nil
}

func openUpload(fh *multipart.FileHeader) (*domain.FileUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
	}
	return &domain.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, nil
}

func closeUploads(banner *domain.FileUpload, gallery []*domain.FileUpload) {
	if banner != nil {
		if closer, ok := banner.Content.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	for _, g := range gallery {
		if closer, ok := g.Content.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
}

func parseFormTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(s))
}

func parseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
