package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evently/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	contextTimeout time.Duration
}

func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		hasher:         hasher,
		contextTimeout: timeout,
	}
}

func (s *userService) GetMyProfile(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateMyProfile(ctx context.Context, userID, fullName string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrInvalidInput)
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, fullName); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, currentPassword); err != nil {
		return domain.ErrForbidden
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.SetPassword(ctx, user.ID, hash, salt)
}
