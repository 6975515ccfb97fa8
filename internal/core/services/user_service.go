package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/dto"
	"github.com/medimatch/medimatch_backend/internal/middleware"
	"github.com/medimatch/medimatch_backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new user with a hashed password.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	user := domain.User{
		UserID: newUserID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID, // Self-registration
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user, hash); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("new_user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a specific user by their ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// UpdateUser updates the user's own profile details.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, fmt.Errorf("%w: users may only update their own profile", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return user, nil
}

// AuthenticateUser checks login credentials, returning the user on success.
// Both unknown email and wrong password map to ErrUnauthorized so the
// response does not leak which one failed.
func (s *userService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	user, hash, err := s.userRepo.FindPasswordHashByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if !utils.CheckPasswordHash(password, hash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
