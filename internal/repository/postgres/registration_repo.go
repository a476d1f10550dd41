package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"evently/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, user_id, status, ticket, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, reg.Status, reg.Ticket, reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, ticket, created_at, updated_at
		FROM registrations WHERE id = $1
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, ticket, created_at, updated_at
		FROM registrations WHERE event_id = $1 AND user_id = $2
	`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.status, r.ticket, r.created_at, r.updated_at,
			` + prefixedEventColumns("e") + `
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.user_id = $1 AND r.status = 'registered'
		ORDER BY e.start_date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.RegistrationWithEvent, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		e := &domain.Event{}
		leading := []any{&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.Ticket, &reg.CreatedAt, &reg.UpdatedAt}
		if err := scanJoinedEvent(rows, leading, e); err != nil {
			return nil, err
		}
		out = append(out, &domain.RegistrationWithEvent{Registration: reg, Event: e})
	}
	return out, rows.Err()
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string, activeOnly bool) ([]*domain.RegistrationWithUser, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.status, r.ticket, r.created_at, r.updated_at,
			u.id, u.full_name, u.email, u.role, u.created_at, u.updated_at
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
	`
	if activeOnly {
		query += ` AND r.status = 'registered'`
	}
	query += ` ORDER BY r.created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.RegistrationWithUser, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		u := &domain.User{}
		err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.Ticket, &reg.CreatedAt, &reg.UpdatedAt,
			&u.ID, &u.FullName, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.RegistrationWithUser{Registration: reg, User: u})
	}
	return out, rows.Err()
}

func (r *registrationRepository) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *registrationRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE status = 'registered'`).Scan(&count)
	return count, err
}

func (r *registrationRepository) DailyCounts(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM registrations
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDailyCounts(rows)
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.Ticket, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

