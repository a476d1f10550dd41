package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

type mockCatalogService struct {
	events []*domain.Event
	total  int
	event  *domain.Event
	err    error

	gotFilter domain.EventFilter
	gotQuery  string
	gotParams domain.PaginationParams
}

func (m *mockCatalogService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	m.gotFilter = filter
	m.gotParams = params
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.events, m.total, nil
}

func (m *mockCatalogService) SearchEvents(ctx context.Context, query string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	m.gotQuery = query
	m.gotParams = params
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.events, m.total, nil
}

func (m *mockCatalogService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

func TestCatalogController_ListEvents_Success(t *testing.T) {
	svc := &mockCatalogService{
		events: []*domain.Event{{ID: testEventID, Title: "Go Meetup", Status: domain.EventStatusPublished}},
		total:  42,
	}
	ctrl := NewCatalogController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events?category=tech&date_range=week&featured=true&page=2&page_size=10", nil)
	w := httptest.NewRecorder()

	ctrl.ListEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.gotFilter.Category != "tech" || svc.gotFilter.DateRange != "week" || !svc.gotFilter.FeaturedOnly {
		t.Errorf("filter not passed through, got %+v", svc.gotFilter)
	}
	if svc.gotParams.Page != 2 || svc.gotParams.PageSize != 10 {
		t.Errorf("pagination not passed through, got %+v", svc.gotParams)
	}

	var resp struct {
		Data struct {
			Pagination helpers.PaginationMeta `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Pagination.Total != 42 {
		t.Errorf("expected total 42, got %d", resp.Data.Pagination.Total)
	}
	if resp.Data.Pagination.TotalPages != 5 {
		t.Errorf("expected 5 total pages, got %d", resp.Data.Pagination.TotalPages)
	}
}

func TestCatalogController_SearchEvents_MissingQuery(t *testing.T) {
	ctrl := NewCatalogController(discardLogger(), &mockCatalogService{})

	req := httptest.NewRequest(http.MethodGet, "/events/search", nil)
	w := httptest.NewRecorder()

	ctrl.SearchEvents(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCatalogController_SearchEvents_Success(t *testing.T) {
	svc := &mockCatalogService{events: []*domain.Event{{ID: testEventID}}, total: 1}
	ctrl := NewCatalogController(discardLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events/search?q=gophers", nil)
	w := httptest.NewRecorder()

	ctrl.SearchEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.gotQuery != "gophers" {
		t.Errorf("expected query %q, got %q", "gophers", svc.gotQuery)
	}
}

func TestCatalogController_GetEvent(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		svc        *mockCatalogService
		wantStatus int
	}{
		{
			name:       "found",
			eventID:    testEventID,
			svc:        &mockCatalogService{event: &domain.Event{ID: testEventID, Status: domain.EventStatusPublished}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not published",
			eventID:    testEventID,
			svc:        &mockCatalogService{err: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			eventID:    "not-a-uuid",
			svc:        &mockCatalogService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewCatalogController(discardLogger(), tt.svc)

			req := httptest.NewRequest(http.MethodGet, "/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			w := httptest.NewRecorder()

			ctrl.GetEvent(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
