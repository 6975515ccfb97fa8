package services

import (
	"context"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
	"github.com/medimatch/medimatch_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a specific user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new user with a hashed password.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// UpdateUser updates the user's own profile details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)
}

// UserAuthenticatorSvc verifies login credentials.
type UserAuthenticatorSvc interface {
	// AuthenticateUser checks email and password, returning the user on success.
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
// This is a facade for clients that need access to all operations
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthenticatorSvc
}
