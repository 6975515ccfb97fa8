package services

import (
	"context"
	"fmt"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
)

// verificationService exposes the doctor's review queue: what still needs a
// verdict and what this reviewer has already approved. Finalizing a match
// lives on the match service; this service is read-only.
type verificationService struct {
	matchRepo portsrepo.MatchRepositoryFacade
	userRepo  portsrepo.UserRepositoryFacade
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(matchRepo portsrepo.MatchRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.VerificationSvcFacade {
	return &verificationService{
		matchRepo: matchRepo,
		userRepo:  userRepo,
	}
}

// Ensure verificationService implements the portssvc.VerificationSvcFacade interface
var _ portssvc.VerificationSvcFacade = (*verificationService)(nil)

// ListPendingVerification returns every match waiting on a review, newest first.
func (s *verificationService) ListPendingVerification(ctx context.Context, reviewerUserID string) ([]domain.Match, error) {
	if err := s.requireDoctor(ctx, reviewerUserID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListMatchesByStatus(ctx, domain.MatchAwaitingVerification)
}

// ListVerifiedBy returns the distinct matches whose proof images this
// reviewer approved, newest first.
func (s *verificationService) ListVerifiedBy(ctx context.Context, reviewerUserID string) ([]domain.Match, error) {
	if err := s.requireDoctor(ctx, reviewerUserID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListMatchesVerifiedBy(ctx, reviewerUserID)
}

func (s *verificationService) requireDoctor(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleDoctor {
		return fmt.Errorf("%w: the review queue requires the doctor role", apperrors.ErrUnauthorized)
	}
	return nil
}
