package domain

import "time"

// DefaultModificationLock is the window before an event's start during which
// organizers cannot edit or delete it and attendees cannot cancel tickets.
const DefaultModificationLock = 24 * time.Hour

// SchedulePolicy is the single source of truth for the time-window and
// capacity rules guarding event and registration mutations. It is pure:
// every decision is a function of the event and the supplied clock reading,
// re-evaluated fresh on each call.
type SchedulePolicy struct {
	ModificationLock time.Duration
}

// NewSchedulePolicy returns a policy with the default 24-hour lock window.
func NewSchedulePolicy() SchedulePolicy {
	return SchedulePolicy{ModificationLock: DefaultModificationLock}
}

// CanPublish reports whether the event may transition draft -> published.
// Events already underway or past cannot be published.
func (p SchedulePolicy) CanPublish(e *Event, now time.Time) error {
	if !e.StartDate.After(now) {
		return ErrEventStarted
	}
	return nil
}

// CanModify reports whether the event may be edited or deleted by its
// organizer. Admin bypass is decided by the caller, not here.
func (p SchedulePolicy) CanModify(e *Event, now time.Time) error {
	if e.StartDate.Sub(now) < p.ModificationLock {
		return ErrLocked
	}
	return nil
}

// CanRegister reports whether a new registration may be taken for the event.
// The duplicate-registration check needs storage and stays with the ledger.
func (p SchedulePolicy) CanRegister(e *Event, now time.Time) error {
	if e.Status != EventStatusPublished {
		return ErrNotFound
	}
	if e.TicketLimit > 0 && e.TotalRegistrations >= e.TicketLimit {
		return ErrSoldOut
	}
	if !e.StartDate.After(now) {
		return ErrEventStarted
	}
	return nil
}

// CanCancelRegistration reports whether a ticket for the event may still be
// cancelled. Ownership is checked by the ledger.
func (p SchedulePolicy) CanCancelRegistration(e *Event, now time.Time) error {
	if e.StartDate.Sub(now) < p.ModificationLock {
		return ErrLocked
	}
	return nil
}
