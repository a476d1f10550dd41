package domain

import (
	"context"
	"time"
)

// Organizer account statuses.
const (
	OrganizerStatusPending  = "pending"
	OrganizerStatusApproved = "approved"
	OrganizerStatusRejected = "rejected"
	OrganizerStatusBlocked  = "blocked"
)

// Organizer is the event-hosting profile attached to a user account.
// Events reference the organizer, not the user, as their owner.
// swagger:model Organizer
type Organizer struct {
	ID                 string    `json:"id"`
	OwnerUserID        string    `json:"owner_user_id"`
	BusinessName       string    `json:"business_name"`
	Description        string    `json:"description,omitempty"`
	Website            string    `json:"website,omitempty"`
	Status             string    `json:"status"`
	TotalEventsCreated int       `json:"total_events_created"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Approved reports whether the organizer may create and manage events.
func (o *Organizer) Approved() bool {
	return o.Status == OrganizerStatusApproved
}

// OrganizerRepository defines the interface for organizer storage.
type OrganizerRepository interface {
	Create(ctx context.Context, org *Organizer) error
	GetByID(ctx context.Context, id string) (*Organizer, error)
	GetByOwnerUserID(ctx context.Context, userID string) (*Organizer, error)
	SetStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	AdjustEventCount(ctx context.Context, id string, delta int) error
	List(ctx context.Context, status string, params PaginationParams) ([]*Organizer, int, error)
	Count(ctx context.Context) (int, error)
}

// OrganizerService defines the organizer application flow.
type OrganizerService interface {
	// Apply creates a pending organizer profile for the user.
	Apply(ctx context.Context, userID, businessName, description, website string) (*Organizer, error)
	GetMyProfile(ctx context.Context, userID string) (*Organizer, error)
}
