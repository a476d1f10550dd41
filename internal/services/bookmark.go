package services

import (
	"context"
	"errors"
	"time"

	"evently/internal/domain"
)

type bookmarkService struct {
	bookmarkRepo   domain.BookmarkRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewBookmarkService(bookmarkRepo domain.BookmarkRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.BookmarkService {
	return &bookmarkService{
		bookmarkRepo:   bookmarkRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *bookmarkService) ToggleBookmark(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.bookmarkRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if existing != nil {
		if err := s.bookmarkRepo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if event.Status != domain.EventStatusPublished {
		return false, domain.ErrNotFound
	}

	if err := s.bookmarkRepo.Create(ctx, &domain.Bookmark{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *bookmarkService) ListMyBookmarks(ctx context.Context, userID string) ([]*domain.BookmarkWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.bookmarkRepo.ListByUserID(ctx, userID)
}
