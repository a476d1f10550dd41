package domain

import "errors"

// Sentinel errors surfaced by the core operations. Services wrap lower-level
// failures with fmt.Errorf; controllers map these to HTTP status codes.
var (
	// ErrNotFound is returned when the requested entity does not exist or is
	// not visible to the caller (e.g. an unpublished event).
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned on ownership or role violations.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned for malformed input that passed transport
	// validation but violates a domain rule (e.g. end date before start date).
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRegistered signals an active registration already exists for
	// the (event, user) pair. Registration is idempotent; callers treat this
	// as a conflict signal, not a failure.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrSoldOut is returned when an event with a ticket limit has no seats left.
	ErrSoldOut = errors.New("tickets sold out")

	// ErrEventStarted is returned when registration is attempted at or after
	// the event start time.
	ErrEventStarted = errors.New("event has already started")

	// ErrLocked is returned when an operation falls inside the modification
	// lock window before the event start.
	ErrLocked = errors.New("operation not allowed within 24 hours of event start")

	// ErrUserNotFound and ErrDuplicateEmail are user account errors.
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrUserBlocked is returned when a blocked account attempts to log in.
	ErrUserBlocked = errors.New("user account is blocked")

	// ErrOrganizerNotApproved is returned when a pending, rejected, or blocked
	// organizer attempts an operation reserved for approved organizers.
	ErrOrganizerNotApproved = errors.New("organizer is not approved")
)
