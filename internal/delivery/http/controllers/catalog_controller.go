package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List published events
// @Description Returns published events, filterable by category, location_type, and date_range (upcoming|today|week|month).
// @Tags catalog
// @Produce json
// @Param category query string false "Category filter"
// @Param location_type query string false "online or offline"
// @Param date_range query string false "upcoming, today, week, or month"
// @Param featured query bool false "Only admin-featured events"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse{data=helpers.PaginatedData}
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *CatalogController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Category:     strings.TrimSpace(q.Get("category")),
		LocationType: strings.TrimSpace(q.Get("location_type")),
		DateRange:    strings.TrimSpace(q.Get("date_range")),
		FeaturedOnly: q.Get("featured") == "true",
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedData{
		Items:      events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// SearchEvents godoc
// @Summary Search published events
// @Description Full-text search over title, descriptions, and category.
// @Tags catalog
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse{data=helpers.PaginatedData}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/search [get]
func (c *CatalogController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing search query")
		return
	}
	params := helpers.ParsePagination(r)

	events, total, err := c.Service.SearchEvents(r.Context(), query, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.PaginatedData{
		Items:      events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetEvent godoc
// @Summary Get a published event
// @Description Returns the event detail and records a view. Draft and cancelled events read as 404.
// @Tags catalog
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *CatalogController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
