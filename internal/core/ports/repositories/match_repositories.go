package repositories

import (
	"context"
	"time"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// MatchReader defines read operations for match data
type MatchReader interface {
	// FindMatchByID retrieves a specific match by its unique identifier.
	FindMatchByID(ctx context.Context, matchID string) (*domain.Match, error)

	// ListMatchesByUser retrieves matches where the user is the donor or the
	// requester, newest first.
	ListMatchesByUser(ctx context.Context, userID string) ([]domain.Match, error)

	// ListMatchesByStatus retrieves matches in the given status, newest first.
	ListMatchesByStatus(ctx context.Context, status domain.MatchStatus) ([]domain.Match, error)

	// ListMatchesVerifiedBy retrieves distinct matches whose proof images were
	// approved by the given reviewer, newest first. The underlying rows are
	// per-image; the result is deduplicated by match.
	ListMatchesVerifiedBy(ctx context.Context, reviewerID string) ([]domain.Match, error)
}

// MatchWriter defines the state-changing operations of the match ledger. Each
// is a single transaction that re-checks persisted state before writing, so
// two racing callers can never both pass a guard.
type MatchWriter interface {
	// CreateMatch inserts the match and locks both listings to PENDING,
	// failing with apperrors.ErrConflict if either listing is no longer
	// AVAILABLE at the moment of the write.
	CreateMatch(ctx context.Context, match domain.Match) error

	// TransitionMatchStatus conditionally advances the match from one status
	// to the next. Returns apperrors.ErrInvalidState when the persisted
	// status is not `from`, and apperrors.ErrNotFound when no such match
	// exists.
	TransitionMatchStatus(ctx context.Context, matchID string, from, to domain.MatchStatus, now time.Time) error

	// CompleteMatch finalizes an AWAITING_VERIFICATION match: sets it
	// COMPLETED, locks both listings to MATCHED and stamps every proof image
	// on either listing as approved by the reviewer. All of it commits or
	// rolls back together.
	CompleteMatch(ctx context.Context, matchID string, reviewerID string, now time.Time) (*domain.Match, error)
}

// MatchRepositoryFacade combines all match-related repository interfaces
// This is a facade for clients that need access to all operations
type MatchRepositoryFacade interface {
	MatchReader
	MatchWriter
}

// MatchRepositoryWithTx extends MatchRepositoryFacade with transaction capabilities
type MatchRepositoryWithTx interface {
	MatchRepositoryFacade
	TransactionManager
}
