package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"evently/internal/domain"
)

const organizerColumns = `id, owner_user_id, business_name, description, website,
		status, total_events_created, created_at, updated_at`

type organizerRepository struct {
	DB *sql.DB
}

func NewOrganizerRepository(db *sql.DB) domain.OrganizerRepository {
	return &organizerRepository{DB: db}
}

func (r *organizerRepository) Create(ctx context.Context, org *domain.Organizer) error {
	query := `
		INSERT INTO organizers (owner_user_id, business_name, description, website, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		org.OwnerUserID, org.BusinessName, org.Description, org.Website, org.Status,
		org.CreatedAt, org.UpdatedAt,
	).Scan(&org.ID)
}

func (r *organizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	query := `SELECT ` + organizerColumns + ` FROM organizers WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *organizerRepository) GetByOwnerUserID(ctx context.Context, userID string) (*domain.Organizer, error) {
	query := `SELECT ` + organizerColumns + ` FROM organizers WHERE owner_user_id = $1`
	return r.getOne(ctx, query, userID)
}

func (r *organizerRepository) getOne(ctx context.Context, query string, arg any) (*domain.Organizer, error) {
	org := &domain.Organizer{}
	var description, website sql.NullString
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&org.ID, &org.OwnerUserID, &org.BusinessName, &description, &website,
		&org.Status, &org.TotalEventsCreated, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	org.Description = description.String
	org.Website = website.String
	return org, nil
}

func (r *organizerRepository) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE organizers SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *organizerRepository) AdjustEventCount(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE organizers
		SET total_events_created = GREATEST(total_events_created + $1, 0), updated_at = NOW()
		WHERE id = $2
	`
	res, err := r.DB.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *organizerRepository) List(ctx context.Context, status string, params domain.PaginationParams) ([]*domain.Organizer, int, error) {
	where := ""
	args := []any{}
	n := 1
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
		n++
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + organizerColumns + ` FROM organizers` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, params.PageSize, params.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orgs := make([]*domain.Organizer, 0)
	for rows.Next() {
		org := &domain.Organizer{}
		var description, website sql.NullString
		err := rows.Scan(
			&org.ID, &org.OwnerUserID, &org.BusinessName, &description, &website,
			&org.Status, &org.TotalEventsCreated, &org.CreatedAt, &org.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		org.Description = description.String
		org.Website = website.String
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

func (r *organizerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizers`).Scan(&count)
	return count, err
}
