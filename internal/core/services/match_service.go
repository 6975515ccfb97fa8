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
)

// matchService owns the match lifecycle. It is the only writer of match
// status, and it drives every listing status change through the repository's
// transactional lock operations. Notifications are dispatched after the
// database write commits and never affect the outcome of a transition.
type matchService struct {
	matchRepo   portsrepo.MatchRepositoryWithTx
	listingRepo portsrepo.ListingRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	notifier    portssvc.Notifier
}

// NewMatchService creates a new MatchService.
func NewMatchService(
	matchRepo portsrepo.MatchRepositoryWithTx,
	listingRepo portsrepo.ListingRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.MatchSvcFacade {
	return &matchService{
		matchRepo:   matchRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Ensure matchService implements the portssvc.MatchSvcFacade interface
var _ portssvc.MatchSvcFacade = (*matchService)(nil)

// InitiateMatch pairs a donation listing with one of the requester's own
// request listings. Ownership and kind are checked here; the availability of
// both listings is re-checked under row locks inside CreateMatch, so two
// requesters racing on the same donation cannot both succeed.
func (s *matchService) InitiateMatch(ctx context.Context, req dto.InitiateMatchRequest, requesterUserID string) (*domain.Match, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	donorListing, err := s.listingRepo.FindListingByID(ctx, req.DonorListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load donor listing: %w", err)
	}
	requesterListing, err := s.listingRepo.FindListingByID(ctx, req.RequesterListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester listing: %w", err)
	}

	if donorListing.Kind != domain.KindDonation || requesterListing.Kind != domain.KindRequest {
		return nil, fmt.Errorf("%w: match must pair a donation with a request", apperrors.ErrValidation)
	}
	// Only the owner of the request listing may start a match from it.
	if requesterListing.OwnerID != requesterUserID {
		return nil, fmt.Errorf("%w: match must be initiated from your own request", apperrors.ErrUnauthorized)
	}
	if donorListing.OwnerID == requesterUserID {
		return nil, fmt.Errorf("%w: cannot match your own donation", apperrors.ErrValidation)
	}
	// Early availability check for a friendly error. The authoritative check
	// happens again under lock inside CreateMatch.
	if donorListing.Status != domain.ListingAvailable || requesterListing.Status != domain.ListingAvailable {
		return nil, apperrors.ErrConflict
	}

	now := time.Now()
	match := domain.Match{
		MatchID:            uuid.NewString(),
		DonorID:            donorListing.OwnerID,
		RequesterID:        requesterUserID,
		DonorListingID:     donorListing.ListingID,
		RequesterListingID: requesterListing.ListingID,
		Status:             domain.MatchPending,
		CreatedAt:          now,
		LastUpdatedAt:      now,
	}

	if err := s.matchRepo.CreateMatch(ctx, match); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Match initiation lost the race for a listing",
				slog.String("donor_listing_id", donorListing.ListingID),
				slog.String("requester_listing_id", requesterListing.ListingID))
			return nil, err
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	logger.Info("Match initiated",
		slog.String("match_id", match.MatchID),
		slog.String("donor_listing_id", donorListing.ListingID),
		slog.String("requester_listing_id", requesterListing.ListingID))

	s.notifyUser(ctx, donorListing.OwnerID, "New request for your donation",
		fmt.Sprintf("Someone requested your donation: %s. Visit your dashboard to accept.", donorListing.Name))

	return &match, nil
}

// AcceptMatch advances a PENDING match to DONOR_ACCEPTED.
func (s *matchService) AcceptMatch(ctx context.Context, matchID string, callerUserID string) (*domain.Match, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.DonorID != callerUserID {
		return nil, fmt.Errorf("%w: only the donor may accept", apperrors.ErrUnauthorized)
	}

	updated, err := s.transition(ctx, match, domain.MatchPending, domain.MatchDonorAccepted)
	if err != nil {
		return nil, err
	}

	donorListing, lerr := s.listingRepo.FindListingByID(ctx, match.DonorListingID)
	medicineName := ""
	if lerr == nil {
		medicineName = donorListing.Name
	}
	s.notifyUser(ctx, match.RequesterID, "Your request was accepted",
		fmt.Sprintf("The donor accepted the request for %s. Please confirm to send the match for verification.", medicineName))

	return updated, nil
}

// ConfirmMatch advances a DONOR_ACCEPTED match to AWAITING_VERIFICATION and
// asks every doctor to review it.
func (s *matchService) ConfirmMatch(ctx context.Context, matchID string, callerUserID string) (*domain.Match, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.RequesterID != callerUserID {
		return nil, fmt.Errorf("%w: only the requester may confirm", apperrors.ErrUnauthorized)
	}

	updated, err := s.transition(ctx, match, domain.MatchDonorAccepted, domain.MatchAwaitingVerification)
	if err != nil {
		return nil, err
	}

	doctors, derr := s.userRepo.FindUsersByRole(ctx, domain.RoleDoctor)
	if derr != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list doctors for verification notice",
			slog.String("match_id", matchID), slog.String("error", derr.Error()))
	} else {
		for _, doc := range doctors {
			s.notifier.Notify(ctx, doc.Email, "Match awaiting verification",
				fmt.Sprintf("Match %s is ready for review. Please inspect the proof images and verify.", matchID))
		}
	}

	return updated, nil
}

// VerifyMatch finalizes the match. The repository write is a single
// transaction covering the match status, both listing statuses and the bulk
// proof approval; the contact-revealing notifications go out only after it
// commits.
func (s *matchService) VerifyMatch(ctx context.Context, matchID string, reviewerUserID string) (*domain.Match, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reviewer, err := s.userRepo.FindUserByID(ctx, reviewerUserID)
	if err != nil {
		return nil, err
	}
	if reviewer.Role != domain.RoleDoctor {
		return nil, fmt.Errorf("%w: verification requires the doctor role", apperrors.ErrUnauthorized)
	}

	updated, err := s.matchRepo.CompleteMatch(ctx, matchID, reviewerUserID, time.Now())
	if err != nil {
		return nil, err
	}

	logger.Info("Match verified",
		slog.String("match_id", matchID),
		slog.String("reviewer_id", reviewerUserID))

	donor, derr := s.userRepo.FindUserByID(ctx, updated.DonorID)
	requester, rerr := s.userRepo.FindUserByID(ctx, updated.RequesterID)
	if derr != nil || rerr != nil {
		logger.Error("Failed to load parties for contact reveal",
			slog.String("match_id", matchID))
		return updated, nil
	}

	body := fmt.Sprintf(
		"Match completed.\nDonor: %s, Email: %s, Phone: %s\nRequester: %s, Email: %s, Phone: %s",
		donor.Name, donor.Email, donor.Phone,
		requester.Name, requester.Email, requester.Phone,
	)
	s.notifier.Notify(ctx, donor.Email, "Match completed & contact revealed", body)
	s.notifier.Notify(ctx, requester.Email, "Match completed & contact revealed", body)

	return updated, nil
}

// GetMatchByID returns a match if the requesting user is a party to it or a doctor.
func (s *matchService) GetMatchByID(ctx context.Context, matchID string, requestingUserID string) (*domain.Match, error) {
	match, err := s.matchRepo.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.DonorID == requestingUserID || match.RequesterID == requestingUserID {
		return match, nil
	}
	user, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleDoctor {
		return nil, apperrors.ErrUnauthorized
	}
	return match, nil
}

// ListMatchesForUser returns the matches the user participates in, newest first.
func (s *matchService) ListMatchesForUser(ctx context.Context, userID string) ([]domain.Match, error) {
	return s.matchRepo.ListMatchesByUser(ctx, userID)
}

// transition performs the conditional status update and returns the match
// with the new status applied.
func (s *matchService) transition(ctx context.Context, match *domain.Match, from, to domain.MatchStatus) (*domain.Match, error) {
	now := time.Now()
	if err := s.matchRepo.TransitionMatchStatus(ctx, match.MatchID, from, to, now); err != nil {
		return nil, err
	}
	updated := *match
	updated.Status = to
	updated.LastUpdatedAt = now
	return &updated, nil
}

// notifyUser resolves a user's email and dispatches a notification. Failures
// to even resolve the recipient are logged and swallowed like any other
// notification failure.
func (s *matchService) notifyUser(ctx context.Context, userID, subject, body string) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to resolve notification recipient",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}
	s.notifier.Notify(ctx, user.Email, subject, body)
}
