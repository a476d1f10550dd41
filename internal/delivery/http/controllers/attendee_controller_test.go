package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/delivery/http/helpers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

const (
	testEventID        = "7b0e3f7e-9f1a-4dcb-9a5e-2f6f4c7d8e90"
	testRegistrationID = "3f2a1b0c-4d5e-4f60-8a9b-0c1d2e3f4a5b"
)

type mockAttendeeService struct {
	reg     *domain.Registration
	created bool
	regs    []*domain.RegistrationWithEvent
	err     error
}

func (m *mockAttendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.Registration, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	return m.reg, m.created, nil
}

func (m *mockAttendeeService) CancelRegistration(ctx context.Context, registrationID, userID string) error {
	return m.err
}

func (m *mockAttendeeService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.regs, nil
}

type mockBookmarkService struct {
	bookmarked bool
	bookmarks  []*domain.BookmarkWithEvent
	err        error
}

func (m *mockBookmarkService) ToggleBookmark(ctx context.Context, eventID, userID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.bookmarked, nil
}

func (m *mockBookmarkService) ListMyBookmarks(ctx context.Context, userID string) ([]*domain.BookmarkWithEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bookmarks, nil
}

func authedRequest(method, target, userID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(middleware.SetPrincipal(req.Context(), userID, []string{domain.RoleUser}))
}

func TestAttendeeController_RegisterForEvent(t *testing.T) {
	tests := []struct {
		name       string
		svc        *mockAttendeeService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "new registration",
			svc:        &mockAttendeeService{reg: &domain.Registration{ID: testRegistrationID}, created: true},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "already registered",
			svc:        &mockAttendeeService{reg: &domain.Registration{ID: testRegistrationID}, created: false},
			wantStatus: http.StatusOK,
		},
		{
			name:       "sold out",
			svc:        &mockAttendeeService{err: domain.ErrSoldOut},
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeSoldOut,
		},
		{
			name:       "event started",
			svc:        &mockAttendeeService{err: domain.ErrEventStarted},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   helpers.ErrCodeTooLate,
		},
		{
			name:       "event not found",
			svc:        &mockAttendeeService{err: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAttendeeController(discardLogger(), tt.svc, &mockBookmarkService{})

			req := authedRequest(http.MethodPost, "/events/"+testEventID+"/register", "u1")
			req.SetPathValue("eventID", testEventID)
			w := httptest.NewRecorder()

			ctrl.RegisterForEvent(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantCode != "" {
				var resp helpers.APIResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Fatalf("expected error code %q, got %+v", tt.wantCode, resp.Error)
				}
			}
		})
	}
}

func TestAttendeeController_RegisterForEvent_InvalidEventID(t *testing.T) {
	ctrl := NewAttendeeController(discardLogger(), &mockAttendeeService{}, &mockBookmarkService{})

	req := authedRequest(http.MethodPost, "/events/not-a-uuid/register", "u1")
	req.SetPathValue("eventID", "not-a-uuid")
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAttendeeController_RegisterForEvent_Unauthorized(t *testing.T) {
	ctrl := NewAttendeeController(discardLogger(), &mockAttendeeService{}, &mockBookmarkService{})

	req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/register", nil)
	req.SetPathValue("eventID", testEventID)
	w := httptest.NewRecorder()

	ctrl.RegisterForEvent(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestAttendeeController_CancelRegistration(t *testing.T) {
	tests := []struct {
		name       string
		svc        *mockAttendeeService
		wantStatus int
	}{
		{"cancelled", &mockAttendeeService{}, http.StatusNoContent},
		{"locked", &mockAttendeeService{err: domain.ErrLocked}, http.StatusUnprocessableEntity},
		{"not owner", &mockAttendeeService{err: domain.ErrForbidden}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAttendeeController(discardLogger(), tt.svc, &mockBookmarkService{})

			req := authedRequest(http.MethodDelete, "/registrations/"+testRegistrationID, "u1")
			req.SetPathValue("registrationID", testRegistrationID)
			w := httptest.NewRecorder()

			ctrl.CancelRegistration(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAttendeeController_ToggleBookmark(t *testing.T) {
	ctrl := NewAttendeeController(discardLogger(), &mockAttendeeService{}, &mockBookmarkService{bookmarked: true})

	req := authedRequest(http.MethodPost, "/events/"+testEventID+"/bookmark", "u1")
	req.SetPathValue("eventID", testEventID)
	w := httptest.NewRecorder()

	ctrl.ToggleBookmark(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Data ToggleBookmarkResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Data.Bookmarked {
		t.Errorf("expected bookmarked true")
	}
}

func TestAttendeeController_ListMyRegistrations_Success(t *testing.T) {
	svc := &mockAttendeeService{
		regs: []*domain.RegistrationWithEvent{
			{
				Registration: &domain.Registration{ID: testRegistrationID, EventID: testEventID, UserID: "u1"},
				Event:        &domain.Event{ID: testEventID, Title: "Go Meetup"},
			},
		},
	}
	ctrl := NewAttendeeController(discardLogger(), svc, &mockBookmarkService{})

	req := authedRequest(http.MethodGet, "/me/registrations", "u1")
	w := httptest.NewRecorder()

	ctrl.ListMyRegistrations(w, req)

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
