package postgres

import (
	"context"
	"database/sql"
	"errors"

	"evently/internal/domain"
)

type bookmarkRepository struct {
	DB *sql.DB
}

func NewBookmarkRepository(db *sql.DB) domain.BookmarkRepository {
	return &bookmarkRepository{DB: db}
}

func (r *bookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	query := `
		INSERT INTO bookmarks (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, b.EventID, b.UserID, b.CreatedAt).Scan(&b.ID)
}

func (r *bookmarkRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Bookmark, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM bookmarks WHERE event_id = $1 AND user_id = $2
	`
	b := &domain.Bookmark{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&b.ID, &b.EventID, &b.UserID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *bookmarkRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.BookmarkWithEvent, error) {
	query := `
		SELECT b.id, b.event_id, b.user_id, b.created_at,
			` + prefixedEventColumns("e") + `
		FROM bookmarks b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.BookmarkWithEvent, 0)
	for rows.Next() {
		b := &domain.Bookmark{}
		e := &domain.Event{}
		leading := []any{&b.ID, &b.EventID, &b.UserID, &b.CreatedAt}
		if err := scanJoinedEvent(rows, leading, e); err != nil {
			return nil, err
		}
		out = append(out, &domain.BookmarkWithEvent{Bookmark: b, Event: e})
	}
	return out, rows.Err()
}

func (r *bookmarkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
