package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
)

type PgxMatchRepository struct {
	BaseRepository
	listingRepo portsrepo.ListingLockSupport
	proofRepo   portsrepo.ProofApprovalSupport
}

// newPgxMatchRepository creates a new repository for match data. The listing
// and proof dependencies provide the in-transaction writes that must commit
// or roll back together with the match itself.
func newPgxMatchRepository(pool *pgxpool.Pool, listingRepo portsrepo.ListingLockSupport, proofRepo portsrepo.ProofApprovalSupport) portsrepo.MatchRepositoryWithTx {
	return &PgxMatchRepository{
		BaseRepository: BaseRepository{Pool: pool},
		listingRepo:    listingRepo,
		proofRepo:      proofRepo,
	}
}

// Ensure PgxMatchRepository implements portsrepo.MatchRepositoryWithTx
var _ portsrepo.MatchRepositoryWithTx = (*PgxMatchRepository)(nil)

const matchColumns = `match_id, donor_id, requester_id, donor_listing_id, requester_listing_id, status, created_at, last_updated_at`

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var match domain.Match
	err := row.Scan(
		&match.MatchID,
		&match.DonorID,
		&match.RequesterID,
		&match.DonorListingID,
		&match.RequesterListingID,
		&match.Status,
		&match.CreatedAt,
		&match.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return &match, nil
}

func collectMatches(rows pgx.Rows) ([]domain.Match, error) {
	defer rows.Close()
	matches := []domain.Match{}
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

// CreateMatch inserts the match and locks both listings to PENDING inside a
// single transaction. The listing rows are locked FOR UPDATE before the
// availability check, so of two racing initiations one blocks until the other
// commits and then fails the re-check with ErrConflict.
func (r *PgxMatchRepository) CreateMatch(ctx context.Context, match domain.Match) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock in a stable order to avoid deadlocks between concurrent creates.
	listingIDs := []string{match.DonorListingID, match.RequesterListingID}
	sort.Strings(listingIDs)

	locked, err := r.listingRepo.FindListingsByIDsForUpdate(ctx, tx, listingIDs)
	if err != nil {
		return err
	}
	for _, listing := range locked {
		if listing.Status != domain.ListingAvailable {
			return fmt.Errorf("listing %s is %s: %w", listing.ListingID, listing.Status, apperrors.ErrConflict)
		}
	}

	query := `
		INSERT INTO matches (match_id, donor_id, requester_id, donor_listing_id, requester_listing_id, status, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, query,
		match.MatchID,
		match.DonorID,
		match.RequesterID,
		match.DonorListingID,
		match.RequesterListingID,
		match.Status,
		match.CreatedAt,
		match.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.MatchID, err)
	}

	if err := r.listingRepo.UpdateListingStatusesInTx(ctx, tx, listingIDs, domain.ListingPending); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindMatchByID retrieves a specific match by its unique identifier.
func (r *PgxMatchRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE match_id = $1;`
	return scanMatch(r.Pool.QueryRow(ctx, query, matchID))
}

// ListMatchesByUser retrieves matches where the user is donor or requester, newest first.
func (r *PgxMatchRepository) ListMatchesByUser(ctx context.Context, userID string) ([]domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE donor_id = $1 OR requester_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for user %s: %w", userID, err)
	}
	return collectMatches(rows)
}

// ListMatchesByStatus retrieves matches in the given status, newest first.
func (r *PgxMatchRepository) ListMatchesByStatus(ctx context.Context, status domain.MatchStatus) ([]domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE status = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by status %s: %w", status, err)
	}
	return collectMatches(rows)
}

// ListMatchesVerifiedBy retrieves distinct matches whose proof images were
// approved by the reviewer, newest first. The approval rows are per-image, so
// the join is deduplicated by match identity.
func (r *PgxMatchRepository) ListMatchesVerifiedBy(ctx context.Context, reviewerID string) ([]domain.Match, error) {
	query := `
		SELECT DISTINCT m.match_id, m.donor_id, m.requester_id, m.donor_listing_id, m.requester_listing_id, m.status, m.created_at, m.last_updated_at
		FROM matches m
		JOIN proof_images p ON p.listing_id IN (m.donor_listing_id, m.requester_listing_id)
		WHERE p.approved_by = $1
		ORDER BY m.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches verified by %s: %w", reviewerID, err)
	}
	return collectMatches(rows)
}

// TransitionMatchStatus conditionally advances the match from one status to
// the next. The WHERE clause carries the expected current status, making the
// read-check-write a single atomic statement: a concurrent caller who already
// moved the match causes this update to match zero rows.
func (r *PgxMatchRepository) TransitionMatchStatus(ctx context.Context, matchID string, from, to domain.MatchStatus, now time.Time) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s is not a forward step: %w", from, to, apperrors.ErrInvalidState)
	}

	query := `UPDATE matches SET status = $3, last_updated_at = $4 WHERE match_id = $1 AND status = $2;`
	tag, err := r.Pool.Exec(ctx, query, matchID, from, to, now)
	if err != nil {
		return fmt.Errorf("failed to transition match %s: %w", matchID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing match from one in the wrong state.
		if _, ferr := r.FindMatchByID(ctx, matchID); ferr != nil {
			return ferr
		}
		return apperrors.ErrInvalidState
	}
	return nil
}

// CompleteMatch finalizes an AWAITING_VERIFICATION match in one transaction:
// the match becomes COMPLETED, both listings become MATCHED and every proof
// image on either listing is stamped approved by the reviewer. A second
// reviewer racing on the same match blocks on the row lock and then fails
// the status re-check with ErrInvalidState.
func (r *PgxMatchRepository) CompleteMatch(ctx context.Context, matchID string, reviewerID string, now time.Time) (*domain.Match, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	match, err := scanMatch(tx.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE match_id = $1 FOR UPDATE;`, matchID))
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchAwaitingVerification {
		return nil, fmt.Errorf("match is %s: %w", match.Status, apperrors.ErrInvalidState)
	}

	_, err = tx.Exec(ctx, `UPDATE matches SET status = $2, last_updated_at = $3 WHERE match_id = $1;`,
		matchID, domain.MatchCompleted, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete match %s: %w", matchID, err)
	}

	listingIDs := []string{match.DonorListingID, match.RequesterListingID}
	sort.Strings(listingIDs)
	if _, err := r.listingRepo.FindListingsByIDsForUpdate(ctx, tx, listingIDs); err != nil {
		return nil, err
	}
	if err := r.listingRepo.UpdateListingStatusesInTx(ctx, tx, listingIDs, domain.ListingMatched); err != nil {
		return nil, err
	}

	if err := r.proofRepo.ApproveProofImagesForListingsInTx(ctx, tx, listingIDs, reviewerID, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	match.Status = domain.MatchCompleted
	match.LastUpdatedAt = now
	return match, nil
}
