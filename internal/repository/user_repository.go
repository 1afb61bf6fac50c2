package repository

import (
	"context"

	"github.com/getjaleel/tax-manager/internal/domain"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// CreateUser creates a user without a password (OAuth sign-in)
	CreateUser(ctx context.Context, user *domain.User) error

	// CreateUserWithPassword creates a user with a bcrypt password hash
	CreateUserWithPassword(ctx context.Context, user *domain.User) error

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserByEmailWithPassword includes the password hash, for login
	GetUserByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)

	// GetUserByGoogleID looks up a user linked to a Google account
	GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	UpdateUser(ctx context.Context, user *domain.User) error
}
