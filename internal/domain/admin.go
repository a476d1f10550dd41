package domain

import "context"

// PlatformAnalytics is the platform-wide summary shown on the admin dashboard.
// swagger:model PlatformAnalytics
type PlatformAnalytics struct {
	TotalUsers         int          `json:"total_users"`
	TotalOrganizers    int          `json:"total_organizers"`
	TotalEvents        int          `json:"total_events"`
	TotalRegistrations int          `json:"total_registrations"`
	DailyRegistrations []DailyCount `json:"daily_registrations"`
}

// AdminService defines moderation and oversight operations. Every mutating
// call writes an audit log entry; the lock window does not apply to admins.
type AdminService interface {
	ListOrganizers(ctx context.Context, status string, params PaginationParams) ([]*Organizer, int, error)
	ApproveOrganizer(ctx context.Context, adminID, organizerID string) error
	RejectOrganizer(ctx context.Context, adminID, organizerID, reason string) error
	BlockOrganizer(ctx context.Context, adminID, organizerID string) error

	SetEventFeatured(ctx context.Context, adminID, eventID string, featured bool) error
	// RemoveEvent deletes an event regardless of schedule, cancelling its
	// registrations and notifying the organizer and active attendees.
	RemoveEvent(ctx context.Context, adminID, eventID, reason string) error

	ListUsers(ctx context.Context, filter UserFilter, params PaginationParams) ([]*User, int, error)
	// BlockUser suspends an account; a blocked user cannot log in.
	BlockUser(ctx context.Context, adminID, userID, reason string) error
	UnblockUser(ctx context.Context, adminID, userID string) error

	GetPlatformAnalytics(ctx context.Context) (*PlatformAnalytics, error)
	ListAuditLogs(ctx context.Context, params PaginationParams) ([]*AuditLog, int, error)
}
