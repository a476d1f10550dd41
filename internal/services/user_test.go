package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"evently/internal/domain"
)

func newUserService(userRepo *mockUserRepository) domain.UserService {
	return NewUserService(userRepo, &mockPasswordHasher{}, 2*time.Second)
}

func TestUserService_UpdateMyProfile(t *testing.T) {
	ctx := context.Background()
	userRepo := &mockUserRepository{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "u1@example.com", FullName: "Old Name"},
	}}
	svc := newUserService(userRepo)

	user, err := svc.UpdateMyProfile(ctx, "u1", "  New Name  ")
	require.NoError(t, err)
	require.Equal(t, "New Name", user.FullName)

	_, err = svc.UpdateMyProfile(ctx, "u1", "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateMyProfile(ctx, "ghost", "Someone")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		current string
		next    string
		wantErr error
	}{
		{
			name:    "success",
			current: "old-password",
			next:    "a-new-password",
		},
		{
			name:    "wrong current password",
			current: "not-the-password",
			next:    "a-new-password",
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "new password too short",
			current: "old-password",
			next:    "short",
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepository{users: map[string]*domain.User{
				"u1": {ID: "u1", Email: "u1@example.com",
					PasswordHash: "hashed:salt:old-password", Salt: "salt"},
			}}
			svc := newUserService(userRepo)

			err := svc.ChangePassword(ctx, "u1", tt.current, tt.next)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Equal(t, "hashed:salt:old-password", userRepo.users["u1"].PasswordHash)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "hashed:salt:"+tt.next, userRepo.users["u1"].PasswordHash)
		})
	}
}
