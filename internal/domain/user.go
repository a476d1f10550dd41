package domain

import (
	"context"
	"time"
)

// Application roles carried in the auth token.
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents a registered user account.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Blocked      bool      `json:"blocked"`
	BlockReason  string    `json:"block_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserFilter narrows admin user listings. Query matches name or email,
// Status is one of "", "active", "blocked".
type UserFilter struct {
	Query  string
	Role   string
	Status string
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (userID string, roles []string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	SetRole(ctx context.Context, userID, role string) error
	UpdateProfile(ctx context.Context, userID, fullName string) error
	SetPassword(ctx context.Context, userID, hash, salt string) error
	SetBlocked(ctx context.Context, userID string, blocked bool, reason string) error
	List(ctx context.Context, filter UserFilter, params PaginationParams) ([]*User, int, error)
	Count(ctx context.Context) (int, error)
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// UserService covers the authenticated user's own account.
type UserService interface {
	GetMyProfile(ctx context.Context, userID string) (*User, error)
	UpdateMyProfile(ctx context.Context, userID, fullName string) (*User, error)
	// ChangePassword verifies the current password before storing the new one.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
