package domain

import (
	"context"
	"time"
)

// Registration statuses.
const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCancelled  = "cancelled"
)

// Registration represents a user's claim on one seat at an event. At most one
// registration exists per (event, user) pair; a cancelled one keeps the row
// until the user re-registers, at which point it is replaced by a fresh one.
// swagger:model Registration
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Ticket    string    `json:"ticket"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRegistration returns an active registration for the pair with the given
// ticket token. ID is set by the repository on create.
func NewRegistration(eventID, userID, ticket string, now time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		UserID:    userID,
		Status:    RegistrationStatusRegistered,
		Ticket:    ticket,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RegistrationWithEvent bundles a registration with its event for history views.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationWithUser bundles a registration with its owner for organizer views.
type RegistrationWithUser struct {
	Registration *Registration `json:"registration"`
	User         *User         `json:"user"`
}

// RegistrationRepository defines storage operations for registrations.
// The (event_id, user_id) pair carries a unique constraint; Create maps a
// violation of it to ErrAlreadyRegistered.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	ListActiveByUserID(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	ListByEventID(ctx context.Context, eventID string, activeOnly bool) ([]*RegistrationWithUser, error)
	SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	// Delete removes a single registration; event-level cleanup rides on the
	// database cascade when an event row is deleted.
	Delete(ctx context.Context, id string) error

	CountActive(ctx context.Context) (int, error)
	// DailyCounts aggregates registrations per day across all events.
	DailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error)
}

// TicketIssuer mints opaque, tamper-evident ticket tokens for registrations.
type TicketIssuer interface {
	Issue(eventID, userID string, issuedAt time.Time) (string, error)
	Verify(token string) (eventID, userID string, err error)
}

// AttendeeService is the registration ledger plus the attendee-facing reads.
type AttendeeService interface {
	// RegisterForEvent registers the user for the event. Returns
	// (reg, created, err): created is false with the existing registration
	// when the user already holds an active seat.
	RegisterForEvent(ctx context.Context, eventID, userID string) (*Registration, bool, error)
	// CancelRegistration cancels the caller's registration. Cancelling an
	// already-cancelled registration is a no-op.
	CancelRegistration(ctx context.Context, registrationID, userID string) error
	ListMyRegistrations(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
}
