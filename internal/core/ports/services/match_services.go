package services

import (
	"context"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
	"github.com/medimatch/medimatch_backend/internal/dto"
)

// MatchReaderSvc defines read operations for match data
type MatchReaderSvc interface {
	// GetMatchByID retrieves a match visible to the requesting user.
	GetMatchByID(ctx context.Context, matchID string, requestingUserID string) (*domain.Match, error)

	// ListMatchesForUser retrieves the matches where the user is donor or
	// requester, newest first.
	ListMatchesForUser(ctx context.Context, userID string) ([]domain.Match, error)
}

// MatchLedgerSvc defines the four state-changing operations of the match
// lifecycle. Every operation takes the authenticated caller's user ID
// explicitly; there is no ambient current-user state.
type MatchLedgerSvc interface {
	// InitiateMatch pairs an AVAILABLE donation with one of the caller's own
	// AVAILABLE request listings, locking both and notifying the donor.
	InitiateMatch(ctx context.Context, req dto.InitiateMatchRequest, requesterUserID string) (*domain.Match, error)

	// AcceptMatch moves a PENDING match to DONOR_ACCEPTED. Only the donor
	// side of the match may call it.
	AcceptMatch(ctx context.Context, matchID string, callerUserID string) (*domain.Match, error)

	// ConfirmMatch moves a DONOR_ACCEPTED match to AWAITING_VERIFICATION.
	// Only the requester side of the match may call it.
	ConfirmMatch(ctx context.Context, matchID string, callerUserID string) (*domain.Match, error)

	// VerifyMatch finalizes an AWAITING_VERIFICATION match: approves every
	// proof image on both listings, locks the listings to MATCHED and
	// reveals both parties' contact details by notification. Doctor only.
	VerifyMatch(ctx context.Context, matchID string, reviewerUserID string) (*domain.Match, error)
}

// MatchSvcFacade combines all match-related service interfaces
// This is a facade for clients that need access to all operations
type MatchSvcFacade interface {
	MatchReaderSvc
	MatchLedgerSvc
}

// VerificationSvcFacade defines the doctor-facing review queue operations.
type VerificationSvcFacade interface {
	// ListPendingVerification retrieves matches waiting on a doctor review,
	// newest first. Doctor only.
	ListPendingVerification(ctx context.Context, reviewerUserID string) ([]domain.Match, error)

	// ListVerifiedBy retrieves the distinct matches whose proof images were
	// approved by the reviewer, newest first. Doctor only.
	ListVerifiedBy(ctx context.Context, reviewerUserID string) ([]domain.Match, error)
}
