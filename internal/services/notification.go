package services

import (
	"context"
	"errors"
	"time"

	"evently/internal/domain"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	organizerRepo    domain.OrganizerRepository
	contextTimeout   time.Duration
}

func NewNotificationService(notificationRepo domain.NotificationRepository,
	organizerRepo domain.OrganizerRepository,
	timeout time.Duration,
) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		organizerRepo:    organizerRepo,
		contextTimeout:   timeout,
	}
}

// ListMyNotifications merges the user inbox with the organizer inbox when the
// caller owns an organizer profile. Pagination applies to the user inbox; the
// organizer entries for the same page window ride along.
func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	items, total, err := s.notificationRepo.ListByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, err
	}

	org, err := s.organizerRepo.GetByOwnerUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return items, total, nil
		}
		return nil, 0, err
	}
	orgItems, orgTotal, err := s.notificationRepo.ListByOrganizerID(ctx, org.ID, params)
	if err != nil {
		return nil, 0, err
	}
	return mergeByCreatedAt(items, orgItems), total + orgTotal, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func mergeByCreatedAt(a, b []*domain.Notification) []*domain.Notification {
	out := make([]*domain.Notification, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].CreatedAt.After(b[j].CreatedAt) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
