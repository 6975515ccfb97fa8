package repositories

import (
	"context"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their unique email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByRole retrieves every user holding the given role.
	FindUsersByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User, passwordHash string) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserAuthenticator exposes the stored credentials needed for login checks.
type UserAuthenticator interface {
	// FindPasswordHashByEmail returns the user and their stored password hash.
	FindPasswordHashByEmail(ctx context.Context, email string) (*domain.User, string, error)
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserAuthenticator
}
