package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	userID string
	roles  []string
	err    error
}

func (v *stubVerifier) Verify(token string) (string, []string, error) {
	if v.err != nil {
		return "", nil, v.err
	}
	return v.userID, v.roles, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifier   *stubVerifier
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifier:   &stubVerifier{userID: "u1", roles: []string{"user"}},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			verifier:   &stubVerifier{userID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc",
			verifier:   &stubVerifier{userID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			verifier:   &stubVerifier{userID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			verifier:   &stubVerifier{err: errors.New("expired")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				userID, ok := UserIDFromContext(r.Context())
				require.True(t, ok)
				require.Equal(t, "u1", userID)
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireAuth(tt.verifier, testLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/me/registrations", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		required   string
		wantStatus int
	}{
		{"has role", []string{"user", "organizer"}, "organizer", http.StatusOK},
		{"lacks role", []string{"user"}, "admin", http.StatusForbidden},
		{"no principal", nil, "admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}
			handler := RequireRole(tt.required)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/admin/analytics", nil)
			if tt.roles != nil {
				req = req.WithContext(SetPrincipal(req.Context(), "u1", tt.roles))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
