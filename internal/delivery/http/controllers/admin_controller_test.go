package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

const (
	testOrganizerID = "9c8b7a65-4321-4def-8012-3456789abcde"
	testUserID      = "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d"
)

type mockAdminService struct {
	analytics *domain.PlatformAnalytics
	err       error

	approved []string
	rejected map[string]string
	removed  map[string]string
	featured map[string]bool
	blocked  map[string]string
}

func newMockAdminService() *mockAdminService {
	return &mockAdminService{
		rejected: make(map[string]string),
		removed:  make(map[string]string),
		featured: make(map[string]bool),
		blocked:  make(map[string]string),
	}
}

func (m *mockAdminService) ListOrganizers(ctx context.Context, status string, params domain.PaginationParams) ([]*domain.Organizer, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []*domain.Organizer{{ID: testOrganizerID, Status: domain.OrganizerStatusPending}}, 1, nil
}

func (m *mockAdminService) ApproveOrganizer(ctx context.Context, adminID, organizerID string) error {
	if m.err != nil {
		return m.err
	}
	m.approved = append(m.approved, organizerID)
	return nil
}

func (m *mockAdminService) RejectOrganizer(ctx context.Context, adminID, organizerID, reason string) error {
	if m.err != nil {
		return m.err
	}
	m.rejected[organizerID] = reason
	return nil
}

func (m *mockAdminService) BlockOrganizer(ctx context.Context, adminID, organizerID string) error {
	return m.err
}

func (m *mockAdminService) SetEventFeatured(ctx context.Context, adminID, eventID string, featured bool) error {
	if m.err != nil {
		return m.err
	}
	m.featured[eventID] = featured
	return nil
}

func (m *mockAdminService) RemoveEvent(ctx context.Context, adminID, eventID, reason string) error {
	if m.err != nil {
		return m.err
	}
	m.removed[eventID] = reason
	return nil
}

func (m *mockAdminService) ListUsers(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []*domain.User{{ID: testUserID, Email: "u@example.com", Role: domain.RoleUser}}, 1, nil
}

func (m *mockAdminService) BlockUser(ctx context.Context, adminID, userID, reason string) error {
	if m.err != nil {
		return m.err
	}
	m.blocked[userID] = reason
	return nil
}

func (m *mockAdminService) UnblockUser(ctx context.Context, adminID, userID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.blocked, userID)
	return nil
}

func (m *mockAdminService) GetPlatformAnalytics(ctx context.Context) (*domain.PlatformAnalytics, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.analytics, nil
}

func (m *mockAdminService) ListAuditLogs(ctx context.Context, params domain.PaginationParams) ([]*domain.AuditLog, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return nil, 0, nil
}

func adminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.SetPrincipal(req.Context(), "admin-1", []string{domain.RoleUser, domain.RoleAdmin}))
}

func TestAdminController_ApproveOrganizer(t *testing.T) {
	tests := []struct {
		name       string
		svc        *mockAdminService
		wantStatus int
	}{
		{"approved", newMockAdminService(), http.StatusNoContent},
		{"not found", &mockAdminService{err: domain.ErrNotFound}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAdminController(discardLogger(), tt.svc)

			req := adminRequest(http.MethodPost, "/admin/organizers/"+testOrganizerID+"/approve")
			req.SetPathValue("organizerID", testOrganizerID)
			w := httptest.NewRecorder()

			ctrl.ApproveOrganizer(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAdminController_RejectOrganizer_WithReason(t *testing.T) {
	svc := newMockAdminService()
	ctrl := NewAdminController(discardLogger(), svc)

	body := `{"reason":"incomplete business details"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/organizers/"+testOrganizerID+"/reject", strings.NewReader(body))
	req = req.WithContext(middleware.SetPrincipal(req.Context(), "admin-1", []string{domain.RoleUser, domain.RoleAdmin}))
	req.SetPathValue("organizerID", testOrganizerID)
	w := httptest.NewRecorder()

	ctrl.RejectOrganizer(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if svc.rejected[testOrganizerID] != "incomplete business details" {
		t.Errorf("expected reason to reach the service, got %q", svc.rejected[testOrganizerID])
	}
}

func TestAdminController_BlockUser_WithReason(t *testing.T) {
	svc := newMockAdminService()
	ctrl := NewAdminController(discardLogger(), svc)

	body := `{"reason":"spam registrations"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+testUserID+"/block", strings.NewReader(body))
	req = req.WithContext(middleware.SetPrincipal(req.Context(), "admin-1", []string{domain.RoleUser, domain.RoleAdmin}))
	req.SetPathValue("userID", testUserID)
	w := httptest.NewRecorder()

	ctrl.BlockUser(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if svc.blocked[testUserID] != "spam registrations" {
		t.Errorf("expected reason to reach the service, got %q", svc.blocked[testUserID])
	}
}

func TestAdminController_UnblockUser(t *testing.T) {
	svc := newMockAdminService()
	svc.blocked[testUserID] = "spam registrations"
	ctrl := NewAdminController(discardLogger(), svc)

	req := adminRequest(http.MethodPost, "/admin/users/"+testUserID+"/unblock")
	req.SetPathValue("userID", testUserID)
	w := httptest.NewRecorder()

	ctrl.UnblockUser(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if _, still := svc.blocked[testUserID]; still {
		t.Error("expected the block to be lifted")
	}
}

func TestAdminController_ListUsers(t *testing.T) {
	svc := newMockAdminService()
	ctrl := NewAdminController(discardLogger(), svc)

	req := adminRequest(http.MethodGet, "/admin/users?status=active")
	w := httptest.NewRecorder()

	ctrl.ListUsers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestAdminController_RemoveEvent_NoBody(t *testing.T) {
	svc := newMockAdminService()
	ctrl := NewAdminController(discardLogger(), svc)

	req := adminRequest(http.MethodDelete, "/admin/events/"+testEventID)
	req.SetPathValue("eventID", testEventID)
	w := httptest.NewRecorder()

	ctrl.RemoveEvent(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if _, ok := svc.removed[testEventID]; !ok {
		t.Errorf("expected event to be removed")
	}
}

func TestAdminController_FeatureEvent(t *testing.T) {
	svc := newMockAdminService()
	ctrl := NewAdminController(discardLogger(), svc)

	req := adminRequest(http.MethodPost, "/admin/events/"+testEventID+"/feature")
	req.SetPathValue("eventID", testEventID)
	w := httptest.NewRecorder()

	ctrl.FeatureEvent(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if !svc.featured[testEventID] {
		t.Errorf("expected event to be featured")
	}
}

func TestAdminController_GetPlatformAnalytics(t *testing.T) {
	svc := newMockAdminService()
	svc.analytics = &domain.PlatformAnalytics{
		TotalUsers:         100,
		TotalOrganizers:    7,
		TotalEvents:        23,
		TotalRegistrations: 450,
	}
	ctrl := NewAdminController(discardLogger(), svc)

	req := adminRequest(http.MethodGet, "/admin/analytics")
	w := httptest.NewRecorder()

	ctrl.GetPlatformAnalytics(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data domain.PlatformAnalytics `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.TotalUsers != 100 || resp.Data.TotalRegistrations != 450 {
		t.Errorf("unexpected analytics payload: %+v", resp.Data)
	}
}

func TestAdminController_ListOrganizers(t *testing.T) {
	ctrl := NewAdminController(discardLogger(), newMockAdminService())

	req := adminRequest(http.MethodGet, "/admin/organizers?status=pending")
	w := httptest.NewRecorder()

	ctrl.ListOrganizers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}
}
