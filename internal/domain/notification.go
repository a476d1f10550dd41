package domain

import (
	"context"
	"time"
)

// Notification severities.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification is an in-app message for a user or an organizer. Exactly one
// of UserID and OrganizerID is set.
// swagger:model Notification
type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	OrganizerID string    `json:"organizer_id,omitempty"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Severity    string    `json:"severity"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationRepository defines storage operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUserID(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	ListByOrganizerID(ctx context.Context, organizerID string, params PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationService defines the user-facing notification inbox.
type NotificationService interface {
	// ListMyNotifications returns the caller's inbox, including entries
	// addressed to their organizer profile when they have one.
	ListMyNotifications(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Notice is the fan-out payload handed to the Notifier.
type Notice struct {
	UserID      string
	OrganizerID string
	Email       string // optional; when set, an email is sent alongside
	Template    string // email template name, required when Email is set
	Data        any    // template data
	Title       string
	Message     string
	Severity    string
}

// Notifier dispatches best-effort notification fan-out after state
// transitions commit. Implementations must never block the triggering
// operation on failure; errors are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}
