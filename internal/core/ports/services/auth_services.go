package services

import (
	"context"
	"time"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the user, returning the
	// token string and its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
