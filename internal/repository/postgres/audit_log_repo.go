package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"evently/internal/domain"
)

type auditLogRepository struct {
	DB *sql.DB
}

func NewAuditLogRepository(db *sql.DB) domain.AuditLogRepository {
	return &auditLogRepository{DB: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	query := `
		INSERT INTO audit_logs (admin_id, action, module, organizer_id, event_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		entry.AdminID, entry.Action, entry.Module,
		nullString(entry.OrganizerID), nullString(entry.EventID),
		metadata, entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *auditLogRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.AuditLog, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, admin_id, action, module, organizer_id, event_id, metadata, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*domain.AuditLog, 0)
	for rows.Next() {
		entry := &domain.AuditLog{}
		var organizerID, eventID sql.NullString
		var metadata []byte
		err := rows.Scan(&entry.ID, &entry.AdminID, &entry.Action, &entry.Module,
			&organizerID, &eventID, &metadata, &entry.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		entry.OrganizerID = organizerID.String
		entry.EventID = eventID.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, 0, fmt.Errorf("unmarshal audit metadata: %w", err)
			}
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
