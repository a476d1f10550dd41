package postgres

import (
	"context"
	"database/sql"

	"evently/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (user_id, organizer_id, title, message, severity, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		nullString(n.UserID), nullString(n.OrganizerID),
		n.Title, n.Message, n.Severity, n.Read, n.CreatedAt,
	).Scan(&n.ID)
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	return r.list(ctx, "user_id", userID, params)
}

func (r *notificationRepository) ListByOrganizerID(ctx context.Context, organizerID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	return r.list(ctx, "organizer_id", organizerID, params)
}

func (r *notificationRepository) list(ctx context.Context, column, id string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE `+column+` = $1`, id).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, organizer_id, title, message, severity, read, created_at
		FROM notifications
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, id, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.Notification, 0)
	for rows.Next() {
		n := &domain.Notification{}
		var userID, organizerID sql.NullString
		err := rows.Scan(&n.ID, &userID, &organizerID, &n.Title, &n.Message, &n.Severity, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		n.UserID = userID.String
		n.OrganizerID = organizerID.String
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MarkRead covers both rows addressed to the user directly and rows addressed
// to the organizer profile the user owns, since both appear in the same inbox.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE id = $1
		  AND (user_id = $2 OR organizer_id = (SELECT id FROM organizers WHERE owner_user_id = $2))
	`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `
		UPDATE notifications SET read = TRUE
		WHERE (user_id = $1 OR organizer_id = (SELECT id FROM organizers WHERE owner_user_id = $1))
		  AND read = FALSE
	`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
