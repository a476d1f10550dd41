package domain

import (
	"context"
	"time"
)

// Event lifecycle statuses. Draft, published, and cancelled are stored intent;
// live and ended are derived from the schedule and never persisted.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusLive      = "live"
	EventStatusEnded     = "ended"
	EventStatusCancelled = "cancelled"
)

// Event location types.
const (
	LocationTypeOnline  = "online"
	LocationTypeOffline = "offline"
)

// Media is a stored media object reference (banner or gallery image).
// swagger:model Media
type Media struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MaxGallerySize is the maximum number of gallery images per event.
const MaxGallerySize = 10

// Event represents an organizer-owned event that users can register for.
// Status holds the stored intent (draft/published/cancelled); callers that
// need the temporal state must go through StatusAt.
// swagger:model Event
type Event struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	ShortDescription   string    `json:"short_description"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	Tags               []string  `json:"tags"`
	LocationType       string    `json:"location_type"`
	LocationAddress    string    `json:"location_address,omitempty"`
	EventURL           string    `json:"event_url,omitempty"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Banner             *Media    `json:"banner,omitempty"`
	Gallery            []Media   `json:"gallery"`
	OrganizerID        string    `json:"organizer_id"`
	Status             string    `json:"status"`
	TicketLimit        int       `json:"ticket_limit"`
	TotalViews         int       `json:"total_views"`
	TotalRegistrations int       `json:"total_registrations"`
	IsFeatured         bool      `json:"is_featured"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StatusAt returns the event's effective lifecycle status at the given time.
// Cancellation always wins. A published event reads as live inside its time
// window and ended after it; the stored intent is never overwritten, so a
// cancelled or draft signal cannot be masked by a save during the live window.
func (e *Event) StatusAt(now time.Time) string {
	switch e.Status {
	case EventStatusCancelled:
		return EventStatusCancelled
	case EventStatusDraft:
		return EventStatusDraft
	}
	if now.After(e.EndDate) {
		return EventStatusEnded
	}
	if !e.StartDate.After(now) {
		return EventStatusLive
	}
	return e.Status
}

// SeatsLeft returns the number of seats remaining, or -1 for unlimited events.
func (e *Event) SeatsLeft() int {
	if e.TicketLimit <= 0 {
		return -1
	}
	left := e.TicketLimit - e.TotalRegistrations
	if left < 0 {
		left = 0
	}
	return left
}

// AllMedia returns the banner and gallery refs as one slice, skipping nil.
func (e *Event) AllMedia() []Media {
	out := make([]Media, 0, len(e.Gallery)+1)
	if e.Banner != nil {
		out = append(out, *e.Banner)
	}
	out = append(out, e.Gallery...)
	return out
}

// EventFilter narrows public event listings.
type EventFilter struct {
	Category     string
	LocationType string
	// DateRange is one of "", "upcoming", "today", "week", "month".
	DateRange string
	// FeaturedOnly restricts the listing to admin-featured events.
	FeaturedOnly bool
}

// EventUpdate carries the mutable event fields for a partial update.
// Nil pointers leave the stored value untouched.
type EventUpdate struct {
	Title            *string
	ShortDescription *string
	Description      *string
	Category         *string
	Tags             []string
	LocationType     *string
	LocationAddress  *string
	EventURL         *string
	StartDate        *time.Time
	EndDate          *time.Time
	TicketLimit      *int
}

// DailyCount is one day's worth of an analytics series.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// EventAnalytics is the per-event analytics summary for its organizer.
// swagger:model EventAnalytics
type EventAnalytics struct {
	TotalViews         int          `json:"total_views"`
	TotalRegistrations int          `json:"total_registrations"`
	ConversionRate     float64      `json:"conversion_rate"`
	DailyViews         []DailyCount `json:"daily_views"`
	DailyRegistrations []DailyCount `json:"daily_registrations"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	ListPublished(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	Search(ctx context.Context, query string, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	SetFeatured(ctx context.Context, id string, featured bool) error

	// ReserveSeat atomically increments total_registrations if and only if
	// the event still has capacity (ticket_limit = 0 or count below limit).
	// Returns ErrSoldOut when no seat could be reserved.
	ReserveSeat(ctx context.Context, id string) error
	// ReleaseSeat decrements total_registrations, floored at zero.
	ReleaseSeat(ctx context.Context, id string) error
	// IncrementViews bumps total_views by one and records the view for
	// the daily analytics series.
	IncrementViews(ctx context.Context, id string) error

	DailyRegistrations(ctx context.Context, eventID string, since time.Time) ([]DailyCount, error)
	DailyViews(ctx context.Context, eventID string, since time.Time) ([]DailyCount, error)
	Count(ctx context.Context) (int, error)
}

// EventService defines organizer-facing event lifecycle operations.
type EventService interface {
	CreateEvent(ctx context.Context, organizerUserID string, event *Event, banner *FileUpload, gallery []*FileUpload) (*Event, error)
	UpdateEvent(ctx context.Context, organizerUserID, eventID string, upd EventUpdate, banner *FileUpload, gallery []*FileUpload) (*Event, error)
	DeleteEvent(ctx context.Context, organizerUserID, eventID string) error
	DuplicateEvent(ctx context.Context, organizerUserID, eventID string, startDate, endDate *time.Time) (*Event, error)
	PublishEvent(ctx context.Context, organizerUserID, eventID string) (*Event, error)
	UnpublishEvent(ctx context.Context, organizerUserID, eventID string) (*Event, error)
	ListMyEvents(ctx context.Context, organizerUserID string) ([]*Event, error)
	ListEventRegistrations(ctx context.Context, organizerUserID, eventID string) ([]*RegistrationWithUser, error)
	GetEventAnalytics(ctx context.Context, organizerUserID, eventID string) (*EventAnalytics, error)
}

// CatalogService defines the public discovery surface over published events.
type CatalogService interface {
	ListEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	SearchEvents(ctx context.Context, query string, params PaginationParams) ([]*Event, int, error)
	// GetEvent returns a published event and records the view best-effort.
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}
