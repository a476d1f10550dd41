package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"evently/internal/domain"
)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	notifier       domain.Notifier
	tokenExpiry    time.Duration
	contextTimeout time.Duration
}

func NewAuthService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	notifier domain.Notifier,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		notifier:       notifier,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		Role:         domain.RoleUser,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, domain.Notice{
		Email:    user.Email,
		Template: domain.EmailTemplateWelcome,
		Data:     domain.WelcomeEmailData{FullName: user.FullName, Email: user.Email},
	})
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrForbidden
	}
	if user.Blocked {
		return "", nil, domain.ErrUserBlocked
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Email, rolesFor(user), s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// rolesFor expands the stored role into the claim set: organizers and admins
// keep the base user role alongside their elevated one.
func rolesFor(u *domain.User) []string {
	if u.Role == domain.RoleUser {
		return []string{domain.RoleUser}
	}
	return []string{domain.RoleUser, u.Role}
}
