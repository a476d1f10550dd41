package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"evently/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, user_id, organizer_id, title, message, severity, read, created_at`).
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "organizer_id", "title", "message", "severity", "read", "created_at"}).
			AddRow("n-2", "user-1", nil, "Ticket issued", "See you there", "success", false, ts.Add(time.Hour)).
			AddRow("n-1", "user-1", nil, "Welcome", "Account created", "info", true, ts))

	repo := NewNotificationRepository(db)
	out, total, err := repo.ListByUserID(ctx, "user-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, out, 2)
	require.Equal(t, "n-2", out[0].ID)
	require.Empty(t, out[0].OrganizerID)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The inbox merges rows addressed to the user with rows addressed to the
// organizer profile the user owns, so read-state updates must reach both.
func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		caller  string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "own row",
			id:     "n-1",
			caller: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE notifications SET read = TRUE`).
					WithArgs("n-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "organizer-addressed row owned via organizer profile",
			id:     "n-org",
			caller: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`organizer_id = \(SELECT id FROM organizers WHERE owner_user_id`).
					WithArgs("n-org", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "someone else's row",
			id:     "n-1",
			caller: "intruder",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE notifications SET read = TRUE`).
					WithArgs("n-1", "intruder").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "db error",
			id:     "n-1",
			caller: "user-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE notifications SET read = TRUE`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewNotificationRepository(db)
			err = repo.MarkRead(ctx, tt.id, tt.caller)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`user_id = \$1 OR organizer_id = \(SELECT id FROM organizers WHERE owner_user_id = \$1\)`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewNotificationRepository(db)
	require.NoError(t, repo.MarkAllRead(ctx, "user-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
