package services

import (
	"context"
	"log/slog"
	"time"

	"evently/internal/domain"
)

type catalogService struct {
	eventRepo      domain.EventRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewCatalogService(eventRepo domain.EventRepository, logger *slog.Logger, timeout time.Duration) domain.CatalogService {
	return &catalogService{
		eventRepo:      eventRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *catalogService) ListEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.ListPublished(ctx, filter, params)
	if err != nil {
		return nil, 0, err
	}
	deriveStatuses(events)
	return events, total, nil
}

func (s *catalogService) SearchEvents(ctx context.Context, query string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.Search(ctx, query, params)
	if err != nil {
		return nil, 0, err
	}
	deriveStatuses(events)
	return events, total, nil
}

// GetEvent returns a published event by ID and records the view. Draft and
// cancelled events are invisible here regardless of who asks; organizers see
// their own drafts through their own surface.
func (s *catalogService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventStatusPublished {
		return nil, domain.ErrNotFound
	}

	if err := s.eventRepo.IncrementViews(ctx, eventID); err != nil {
		s.logger.Error("failed to record event view", "event_id", eventID, "error", err)
	} else {
		event.TotalViews++
	}

	event.Status = event.StatusAt(time.Now())
	return event, nil
}

func deriveStatuses(events []*domain.Event) {
	now := time.Now()
	for _, e := range events {
		e.Status = e.StatusAt(now)
	}
}
