package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"evently/internal/domain"
)

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	ticketIssuer     domain.TicketIssuer
	policy           domain.SchedulePolicy
	notifier         domain.Notifier
	logger           *slog.Logger
	contextTimeout   time.Duration
}

func NewAttendeeService(eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	ticketIssuer domain.TicketIssuer,
	policy domain.SchedulePolicy,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		ticketIssuer:     ticketIssuer,
		policy:           policy,
		notifier:         notifier,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

// RegisterForEvent takes a seat for the user. The capacity check in the policy
// is only a fast precheck; the authoritative guard is the conditional seat
// reservation, which increments the counter only while capacity remains. If
// the registration insert fails after a seat was taken, the seat is released
// so the counter cannot drift.
func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID string) (*domain.Registration, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	if existing != nil && existing.Status == domain.RegistrationStatusRegistered {
		return existing, false, nil
	}

	now := time.Now()
	if err := s.policy.CanRegister(event, now); err != nil {
		return nil, false, err
	}

	// A cancelled row blocks the unique (event, user) pair; replace it with
	// a fresh registration carrying a new ticket.
	if existing != nil {
		if err := s.registrationRepo.Delete(ctx, existing.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, false, err
		}
	}

	ticket, err := s.ticketIssuer.Issue(eventID, userID, now)
	if err != nil {
		return nil, false, fmt.Errorf("issue ticket: %w", err)
	}

	if err := s.eventRepo.ReserveSeat(ctx, eventID); err != nil {
		return nil, false, err
	}
	reg := domain.NewRegistration(eventID, userID, ticket, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if releaseErr := s.eventRepo.ReleaseSeat(ctx, eventID); releaseErr != nil {
			s.logger.Error("failed to release seat after registration failure",
				"event_id", eventID, "error", releaseErr)
		}
		return nil, false, err
	}

	s.notifyRegistration(ctx, event, userID, domain.EmailTemplateRegistrationConfirmed,
		"Registration confirmed",
		fmt.Sprintf("You are registered for %q.", event.Title),
		domain.NotificationSuccess)
	return reg, true, nil
}

func (s *attendeeService) CancelRegistration(ctx context.Context, registrationID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.Status == domain.RegistrationStatusCancelled {
		return nil
	}
	if reg.UserID != userID {
		return domain.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		return err
	}
	if err := s.policy.CanCancelRegistration(event, time.Now()); err != nil {
		return err
	}

	if err := s.registrationRepo.SetStatus(ctx, reg.ID, domain.RegistrationStatusCancelled, time.Now()); err != nil {
		return err
	}
	if err := s.eventRepo.ReleaseSeat(ctx, reg.EventID); err != nil {
		s.logger.Error("failed to release seat after cancellation",
			"event_id", reg.EventID, "error", err)
	}

	s.notifyRegistration(ctx, event, userID, domain.EmailTemplateRegistrationCancelled,
		"Registration cancelled",
		fmt.Sprintf("Your registration for %q has been cancelled.", event.Title),
		domain.NotificationInfo)
	return nil
}

func (s *attendeeService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.registrationRepo.ListActiveByUserID(ctx, userID)
}

func (s *attendeeService) notifyRegistration(ctx context.Context, event *domain.Event, userID, template, title, message, severity string) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user for notification", "user_id", userID, "error", err)
		return
	}
	s.notifier.Notify(ctx, domain.Notice{
		UserID:   user.ID,
		Email:    user.Email,
		Template: template,
		Data: domain.RegistrationEmailData{
			FullName:   user.FullName,
			EventTitle: event.Title,
			EventURL:   event.EventURL,
			StartDate:  event.StartDate.Format(time.RFC1123),
		},
		Title:    title,
		Message:  message,
		Severity: severity,
	})
}
