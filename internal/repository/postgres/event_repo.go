package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"evently/internal/domain"
)

const eventColumns = `id, title, short_description, description, category, tags,
		location_type, location_address, event_url, start_date, end_date,
		banner_url, banner_public_id, gallery_urls, gallery_public_ids,
		organizer_id, status, ticket_limit, total_views, total_registrations,
		is_featured, created_at, updated_at`

// prefixedEventColumns returns the event column list qualified with the
// given table alias, for joins that select event rows alongside others.
func prefixedEventColumns(alias string) string {
	cols := strings.Split(eventColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, short_description, description, category, tags,
			location_type, location_address, event_url, start_date, end_date,
			banner_url, banner_public_id, gallery_urls, gallery_public_ids,
			organizer_id, status, ticket_limit, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`
	bannerURL, bannerID := splitBanner(e.Banner)
	galleryURLs, galleryIDs := splitGallery(e.Gallery)
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.ShortDescription, e.Description, e.Category, pq.Array(e.Tags),
		e.LocationType, e.LocationAddress, e.EventURL, e.StartDate, e.EndDate,
		bannerURL, bannerID, pq.Array(galleryURLs), pq.Array(galleryIDs),
		e.OrganizerID, e.Status, e.TicketLimit, e.IsFeatured, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListPublished(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := `WHERE status = 'published'`
	args := []any{}
	n := 1
	if filter.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, filter.Category)
		n++
	}
	if filter.LocationType != "" {
		where += fmt.Sprintf(" AND location_type = $%d", n)
		args = append(args, filter.LocationType)
		n++
	}
	if filter.FeaturedOnly {
		where += " AND is_featured = TRUE"
	}
	now := time.Now()
	switch filter.DateRange {
	case "upcoming":
		where += fmt.Sprintf(" AND start_date >= $%d", n)
		args = append(args, now)
		n++
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		where += fmt.Sprintf(" AND start_date >= $%d AND start_date < $%d", n, n+1)
		args = append(args, start, start.AddDate(0, 0, 1))
		n += 2
	case "week":
		where += fmt.Sprintf(" AND start_date >= $%d AND start_date < $%d", n, n+1)
		args = append(args, now, now.AddDate(0, 0, 7))
		n += 2
	case "month":
		where += fmt.Sprintf(" AND start_date >= $%d AND start_date < $%d", n, n+1)
		args = append(args, now, now.AddDate(0, 1, 0))
		n += 2
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Featured events surface first so the admin toggle shows up in listings.
	query := `SELECT ` + eventColumns + ` FROM events ` + where +
		fmt.Sprintf(" ORDER BY is_featured DESC, start_date ASC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, params.PageSize, params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Search(ctx context.Context, query string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := `
		WHERE status = 'published'
		AND to_tsvector('english', title || ' ' || short_description || ' ' || description || ' ' || category)
			@@ plainto_tsquery('english', $1)
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events `+where, query).Scan(&total); err != nil {
		return nil, 0, err
	}

	sel := `SELECT ` + eventColumns + ` FROM events ` + where + ` ORDER BY start_date ASC LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, sel, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, short_description = $2, description = $3, category = $4, tags = $5,
			location_type = $6, location_address = $7, event_url = $8,
			start_date = $9, end_date = $10,
			banner_url = $11, banner_public_id = $12, gallery_urls = $13, gallery_public_ids = $14,
			status = $15, ticket_limit = $16, updated_at = $17
		WHERE id = $18
	`
	bannerURL, bannerID := splitBanner(e.Banner)
	galleryURLs, galleryIDs := splitGallery(e.Gallery)
	res, err := r.DB.ExecContext(ctx, query,
		e.Title, e.ShortDescription, e.Description, e.Category, pq.Array(e.Tags),
		e.LocationType, e.LocationAddress, e.EventURL,
		e.StartDate, e.EndDate,
		bannerURL, bannerID, pq.Array(galleryURLs), pq.Array(galleryIDs),
		e.Status, e.TicketLimit, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *eventRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE events SET is_featured = $1, updated_at = NOW() WHERE id = $2`, featured, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ReserveSeat takes one seat with a conditional increment so the capacity
// check and the counter update are a single atomic statement. Zero rows
// affected means every seat is taken.
func (r *eventRepository) ReserveSeat(ctx context.Context, id string) error {
	query := `
		UPDATE events
		SET total_registrations = total_registrations + 1, updated_at = NOW()
		WHERE id = $1 AND (ticket_limit = 0 OR total_registrations < ticket_limit)
	`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrSoldOut
	}
	return nil
}

func (r *eventRepository) ReleaseSeat(ctx context.Context, id string) error {
	query := `
		UPDATE events
		SET total_registrations = GREATEST(total_registrations - 1, 0), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *eventRepository) IncrementViews(ctx context.Context, id string) error {
	query := `
		WITH bumped AS (
			UPDATE events SET total_views = total_views + 1 WHERE id = $1 RETURNING id
		)
		INSERT INTO event_views (event_id, viewed_at)
		SELECT id, NOW() FROM bumped
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func (r *eventRepository) DailyRegistrations(ctx context.Context, eventID string, since time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDailyCounts(rows)
}

func (r *eventRepository) DailyViews(ctx context.Context, eventID string, since time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT to_char(viewed_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM event_views
		WHERE event_id = $1 AND viewed_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDailyCounts(rows)
}

func collectDailyCounts(rows *sql.Rows) ([]domain.DailyCount, error) {
	counts := make([]domain.DailyCount, 0)
	for rows.Next() {
		var c domain.DailyCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

func splitBanner(banner *domain.Media) (sql.NullString, sql.NullString) {
	if banner == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: banner.URL, Valid: true},
		sql.NullString{String: banner.PublicID, Valid: true}
}

func splitGallery(gallery []domain.Media) ([]string, []string) {
	urls := make([]string, len(gallery))
	ids := make([]string, len(gallery))
	for i, m := range gallery {
		urls[i] = m.URL
		ids[i] = m.PublicID
	}
	return urls, ids
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		tags                    pq.StringArray
		bannerURL, bannerID     sql.NullString
		galleryURLs, galleryIDs pq.StringArray
		address, eventURL       sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.ShortDescription, &e.Description, &e.Category, &tags,
		&e.LocationType, &address, &eventURL, &e.StartDate, &e.EndDate,
		&bannerURL, &bannerID, &galleryURLs, &galleryIDs,
		&e.OrganizerID, &e.Status, &e.TicketLimit, &e.TotalViews, &e.TotalRegistrations,
		&e.IsFeatured, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Tags = tags
	e.LocationAddress = address.String
	e.EventURL = eventURL.String
	if bannerURL.Valid {
		e.Banner = &domain.Media{URL: bannerURL.String, PublicID: bannerID.String}
	}
	e.Gallery = make([]domain.Media, 0, len(galleryURLs))
	for i := range galleryURLs {
		id := ""
		if i < len(galleryIDs) {
			id = galleryIDs[i]
		}
		e.Gallery = append(e.Gallery, domain.Media{URL: galleryURLs[i], PublicID: id})
	}
	return e, nil
}

// scanJoinedEvent scans a row whose trailing columns are the full event
// column list, after the caller-supplied leading destinations.
func scanJoinedEvent(rows *sql.Rows, leading []any, e *domain.Event) error {
	var (
		tags                    pq.StringArray
		bannerURL, bannerID     sql.NullString
		galleryURLs, galleryIDs pq.StringArray
		address, eventURL       sql.NullString
	)
	dest := append(leading,
		&e.ID, &e.Title, &e.ShortDescription, &e.Description, &e.Category, &tags,
		&e.LocationType, &address, &eventURL, &e.StartDate, &e.EndDate,
		&bannerURL, &bannerID, &galleryURLs, &galleryIDs,
		&e.OrganizerID, &e.Status, &e.TicketLimit, &e.TotalViews, &e.TotalRegistrations,
		&e.IsFeatured, &e.CreatedAt, &e.UpdatedAt,
	)
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	e.Tags = tags
	e.LocationAddress = address.String
	e.EventURL = eventURL.String
	if bannerURL.Valid {
		e.Banner = &domain.Media{URL: bannerURL.String, PublicID: bannerID.String}
	}
	e.Gallery = make([]domain.Media, 0, len(galleryURLs))
	for i := range galleryURLs {
		id := ""
		if i < len(galleryIDs) {
			id = galleryIDs[i]
		}
		e.Gallery = append(e.Gallery, domain.Media{URL: galleryURLs[i], PublicID: id})
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]*domain.Event, error) {
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
