package services

import (
	"context"
	"time"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/platform/config"
	"github.com/medimatch/medimatch_backend/internal/utils"
)

// tokenService implements TokenSvcFacade for issuing JWT access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
