package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"evently/internal/domain"
)

const analyticsWindow = 30 * 24 * time.Hour

type eventService struct {
	eventRepo        domain.EventRepository
	organizerRepo    domain.OrganizerRepository
	registrationRepo domain.RegistrationRepository
	mediaStore       domain.MediaStore
	policy           domain.SchedulePolicy
	notifier         domain.Notifier
	logger           *slog.Logger
	contextTimeout   time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	organizerRepo domain.OrganizerRepository,
	registrationRepo domain.RegistrationRepository,
	mediaStore domain.MediaStore,
	policy domain.SchedulePolicy,
	notifier domain.Notifier,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		organizerRepo:    organizerRepo,
		registrationRepo: registrationRepo,
		mediaStore:       mediaStore,
		policy:           policy,
		notifier:         notifier,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, organizerUserID string, event *domain.Event, banner *domain.FileUpload, gallery []*domain.FileUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.approvedOrganizer(ctx, organizerUserID)
	if err != nil {
		return nil, err
	}
	if err := validateEventFields(event); err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, fmt.Errorf("%w: banner image is required", domain.ErrInvalidInput)
	}
	if len(gallery) > domain.MaxGallerySize {
		return nil, fmt.Errorf("%w: gallery holds at most %d images", domain.ErrInvalidInput, domain.MaxGallerySize)
	}

	uploaded, err := s.uploadMedia(ctx, banner, gallery)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event.Banner = uploaded.banner
	event.Gallery = uploaded.gallery
	event.OrganizerID = org.ID
	event.Status = domain.EventStatusDraft
	event.TotalViews = 0
	event.TotalRegistrations = 0
	event.IsFeatured = false
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.releaseMedia(event.AllMedia())
		return nil, err
	}
	if err := s.organizerRepo.AdjustEventCount(ctx, org.ID, 1); err != nil {
		s.logger.Error("failed to bump organizer event count", "organizer_id", org.ID, "error", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, organizerUserID, eventID string, upd domain.EventUpdate, banner *domain.FileUpload, gallery []*domain.FileUpload) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, organizerUserID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanModify(event, time.Now()); err != nil {
		return nil, err
	}

	applyUpdate(event, upd)
	if err := validateEventFields(event); err != nil {
		return nil, err
	}

	var replaced []domain.Media
	if banner != nil {
		media, err := s.mediaStore.Upload(ctx, "events/banners", banner)
		if err != nil {
			return nil, fmt.Errorf("upload banner: %w", err)
		}
		if event.Banner != nil {
			replaced = append(replaced, *event.Banner)
		}
		event.Banner = media
	}
	if len(gallery) > 0 {
		if len(event.Gallery)+len(gallery) > domain.MaxGallerySize {
			return nil, fmt.Errorf("%w: gallery holds at most %d images", domain.ErrInvalidInput, domain.MaxGallerySize)
		}
		for _, f := range gallery {
			media, err := s.mediaStore.Upload(ctx, "events/gallery", f)
			if err != nil {
				return nil, fmt.Errorf("upload gallery image: %w", err)
			}
			event.Gallery = append(event.Gallery, *media)
		}
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	s.releaseMedia(replaced)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, organizerUserID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, organizerUserID, eventID)
	if err != nil {
		return err
	}
	if err := s.policy.CanModify(event, time.Now()); err != nil {
		return err
	}

	attendees, err := s.registrationRepo.ListByEventID(ctx, eventID, true)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	for _, a := range attendees {
		s.notifier.Notify(ctx, domain.Notice{
			UserID:   a.User.ID,
			Email:    a.User.Email,
			Template: domain.EmailTemplateEventCancelled,
			Data: domain.EventCancelledEmailData{
				FullName:   a.User.FullName,
				EventTitle: event.Title,
				Reason:     "The organizer has cancelled this event.",
			},
			Title:    "Event cancelled",
			Message:  fmt.Sprintf("%q has been cancelled by the organizer.", event.Title),
			Severity: domain.NotificationWarning,
		})
	}
	s.releaseMedia(event.AllMedia())
	return nil
}

func (s *eventService) DuplicateEvent(ctx context.Context, organizerUserID, eventID string, startDate, endDate *time.Time) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	src, err := s.ownedEvent(ctx, organizerUserID, eventID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	copyEvent := *src
	copyEvent.ID = ""
	copyEvent.Title = src.Title + " (Copy)"
	copyEvent.Status = domain.EventStatusDraft
	copyEvent.TotalViews = 0
	copyEvent.TotalRegistrations = 0
	copyEvent.IsFeatured = false
	copyEvent.CreatedAt = now
	copyEvent.UpdatedAt = now
	if startDate != nil {
		copyEvent.StartDate = *startDate
	}
	if endDate != nil {
		copyEvent.EndDate = *endDate
	}
	if err := validateEventFields(&copyEvent); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, &copyEvent); err != nil {
		return nil, err
	}
	if err := s.organizerRepo.AdjustEventCount(ctx, copyEvent.OrganizerID, 1); err != nil {
		s.logger.Error("failed to bump organizer event count", "organizer_id", copyEvent.OrganizerID, "error", err)
	}
	return &copyEvent, nil
}

func (s *eventService) PublishEvent(ctx context.Context, organizerUserID, eventID string) (*domain.Event, error) {
	return s.setIntent(ctx, organizerUserID, eventID, domain.EventStatusPublished)
}

func (s *eventService) UnpublishEvent(ctx context.Context, organizerUserID, eventID string) (*domain.Event, error) {
	return s.setIntent(ctx, organizerUserID, eventID, domain.EventStatusDraft)
}

func (s *eventService) setIntent(ctx context.Context, organizerUserID, eventID, status string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, organizerUserID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == status {
		return event, nil
	}
	// Publishing a started event is rejected; unpublishing has no time guard.
	if status == domain.EventStatusPublished {
		if err := s.policy.CanPublish(event, time.Now()); err != nil {
			return nil, err
		}
	}

	event.Status = status
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerUserID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.organizerRepo.GetByOwnerUserID(ctx, organizerUserID)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.ListByOrganizerID(ctx, org.ID)
}

func (s *eventService) ListEventRegistrations(ctx context.Context, organizerUserID, eventID string) ([]*domain.RegistrationWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, organizerUserID, eventID); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListByEventID(ctx, eventID, false)
}

func (s *eventService) GetEventAnalytics(ctx context.Context, organizerUserID, eventID string) (*domain.EventAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, organizerUserID, eventID)
	if err != nil {
		return nil, err
	}

	since := time.Now().Add(-analyticsWindow)
	dailyViews, err := s.eventRepo.DailyViews(ctx, eventID, since)
	if err != nil {
		return nil, err
	}
	dailyRegs, err := s.eventRepo.DailyRegistrations(ctx, eventID, since)
	if err != nil {
		return nil, err
	}

	analytics := &domain.EventAnalytics{
		TotalViews:         event.TotalViews,
		TotalRegistrations: event.TotalRegistrations,
		DailyViews:         dailyViews,
		DailyRegistrations: dailyRegs,
	}
	if event.TotalViews > 0 {
		analytics.ConversionRate = float64(event.TotalRegistrations) / float64(event.TotalViews)
	}
	return analytics, nil
}

func (s *eventService) approvedOrganizer(ctx context.Context, userID string) (*domain.Organizer, error) {
	org, err := s.organizerRepo.GetByOwnerUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !org.Approved() {
		return nil, domain.ErrOrganizerNotApproved
	}
	return org, nil
}

// ownedEvent loads the event and checks the caller's organizer profile owns it.
func (s *eventService) ownedEvent(ctx context.Context, organizerUserID, eventID string) (*domain.Event, error) {
	org, err := s.approvedOrganizer(ctx, organizerUserID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != org.ID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

type uploadedMedia struct {
	banner  *domain.Media
	gallery []domain.Media
}

func (s *eventService) uploadMedia(ctx context.Context, banner *domain.FileUpload, gallery []*domain.FileUpload) (*uploadedMedia, error) {
	out := &uploadedMedia{gallery: make([]domain.Media, 0, len(gallery))}
	media, err := s.mediaStore.Upload(ctx, "events/banners", banner)
	if err != nil {
		return nil, fmt.Errorf("upload banner: %w", err)
	}
	out.banner = media
	for _, f := range gallery {
		m, err := s.mediaStore.Upload(ctx, "events/gallery", f)
		if err != nil {
			s.releaseMedia(append([]domain.Media{*out.banner}, out.gallery...))
			return nil, fmt.Errorf("upload gallery image: %w", err)
		}
		out.gallery = append(out.gallery, *m)
	}
	return out, nil
}

// releaseMedia deletes stored objects best-effort. Orphaned media never fails
// the primary operation.
func (s *eventService) releaseMedia(media []domain.Media) {
	if len(media) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	for _, m := range media {
		if err := s.mediaStore.Delete(ctx, m.PublicID); err != nil {
			s.logger.Error("failed to delete media object", "public_id", m.PublicID, "error", err)
		}
	}
}

func validateEventFields(e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	}
	if !e.EndDate.After(e.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidInput)
	}
	if e.TicketLimit < 0 {
		return fmt.Errorf("%w: ticket limit cannot be negative", domain.ErrInvalidInput)
	}
	switch e.LocationType {
	case domain.LocationTypeOnline:
		if strings.TrimSpace(e.EventURL) == "" {
			return fmt.Errorf("%w: event URL is required for online events", domain.ErrInvalidInput)
		}
	case domain.LocationTypeOffline:
		if strings.TrimSpace(e.LocationAddress) == "" {
			return fmt.Errorf("%w: address is required for offline events", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: location type must be online or offline", domain.ErrInvalidInput)
	}
	return nil
}

func applyUpdate(e *domain.Event, upd domain.EventUpdate) {
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.ShortDescription != nil {
		e.ShortDescription = *upd.ShortDescription
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Tags != nil {
		e.Tags = upd.Tags
	}
	if upd.LocationType != nil {
		e.LocationType = *upd.LocationType
	}
	if upd.LocationAddress != nil {
		e.LocationAddress = *upd.LocationAddress
	}
	if upd.EventURL != nil {
		e.EventURL = *upd.EventURL
	}
	if upd.StartDate != nil {
		e.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		e.EndDate = *upd.EndDate
	}
	if upd.TicketLimit != nil {
		e.TicketLimit = *upd.TicketLimit
	}
}
