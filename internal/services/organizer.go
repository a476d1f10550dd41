package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"evently/internal/domain"
)

type organizerService struct {
	organizerRepo  domain.OrganizerRepository
	contextTimeout time.Duration
}

func NewOrganizerService(organizerRepo domain.OrganizerRepository, timeout time.Duration) domain.OrganizerService {
	return &organizerService{
		organizerRepo:  organizerRepo,
		contextTimeout: timeout,
	}
}

func (s *organizerService) Apply(ctx context.Context, userID, businessName, description, website string) (*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(businessName) == "" {
		return nil, fmt.Errorf("%w: business name is required", domain.ErrInvalidInput)
	}

	existing, err := s.organizerRepo.GetByOwnerUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		// Rejected applicants may re-apply; everyone else already has a profile.
		if existing.Status != domain.OrganizerStatusRejected {
			return nil, fmt.Errorf("%w: organizer application already exists", domain.ErrInvalidInput)
		}
		existing.BusinessName = strings.TrimSpace(businessName)
		existing.Description = description
		existing.Website = website
		if err := s.organizerRepo.SetStatus(ctx, existing.ID, domain.OrganizerStatusPending, time.Now()); err != nil {
			return nil, err
		}
		existing.Status = domain.OrganizerStatusPending
		return existing, nil
	}

	now := time.Now()
	org := &domain.Organizer{
		OwnerUserID:  userID,
		BusinessName: strings.TrimSpace(businessName),
		Description:  description,
		Website:      website,
		Status:       domain.OrganizerStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.organizerRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *organizerService) GetMyProfile(ctx context.Context, userID string) (*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.organizerRepo.GetByOwnerUserID(ctx, userID)
}
