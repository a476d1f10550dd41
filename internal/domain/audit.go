package domain

import (
	"context"
	"time"
)

// AuditLog records an admin moderation action.
// swagger:model AuditLog
type AuditLog struct {
	ID          string         `json:"id"`
	AdminID     string         `json:"admin_id"`
	Action      string         `json:"action"`
	Module      string         `json:"module"`
	OrganizerID string         `json:"organizer_id,omitempty"`
	EventID     string         `json:"event_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditLogRepository defines storage operations for audit logs.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *AuditLog) error
	List(ctx context.Context, params PaginationParams) ([]*AuditLog, int, error)
}
