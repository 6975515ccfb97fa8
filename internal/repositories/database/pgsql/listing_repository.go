package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
)

type PgxListingRepository struct {
	BaseRepository
}

// newPgxListingRepository creates a new repository for listing data.
func newPgxListingRepository(pool *pgxpool.Pool) portsrepo.ListingRepositoryFacade {
	return &PgxListingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxListingRepository implements portsrepo.ListingRepositoryFacade
var _ portsrepo.ListingRepositoryFacade = (*PgxListingRepository)(nil)

const listingColumns = `listing_id, owner_id, name, quantity, expiry_date, kind, status, location, created_at, created_by, last_updated_at, last_updated_by`

func scanListing(row pgx.Row) (*domain.Listing, error) {
	var listing domain.Listing
	err := row.Scan(
		&listing.ListingID,
		&listing.OwnerID,
		&listing.Name,
		&listing.Quantity,
		&listing.ExpiryDate,
		&listing.Kind,
		&listing.Status,
		&listing.Location,
		&listing.CreatedAt,
		&listing.CreatedBy,
		&listing.LastUpdatedAt,
		&listing.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return &listing, nil
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	defer rows.Close()
	listings := []domain.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

// SaveListing persists a new listing.
func (r *PgxListingRepository) SaveListing(ctx context.Context, listing domain.Listing) error {
	query := `
		INSERT INTO listings (listing_id, owner_id, name, quantity, expiry_date, kind, status, location, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		listing.ListingID,
		listing.OwnerID,
		listing.Name,
		listing.Quantity,
		listing.ExpiryDate,
		listing.Kind,
		listing.Status,
		listing.Location,
		listing.CreatedAt,
		listing.CreatedBy,
		listing.LastUpdatedAt,
		listing.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing %s: %w", listing.ListingID, err)
	}
	return nil
}

// FindListingByID retrieves a specific listing by its unique identifier.
func (r *PgxListingRepository) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE listing_id = $1;`
	return scanListing(r.Pool.QueryRow(ctx, query, listingID))
}

// ListByOwner retrieves all listings of the given kind owned by a user, newest first.
func (r *PgxListingRepository) ListByOwner(ctx context.Context, ownerID string, kind domain.ListingKind) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 AND kind = $2 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, ownerID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings for owner %s: %w", ownerID, err)
	}
	return collectListings(rows)
}

// SearchAvailableDonations retrieves AVAILABLE donation listings whose
// medicine name matches the query, case-insensitively.
func (r *PgxListingRepository) SearchAvailableDonations(ctx context.Context, query string, limit int, offset int) ([]domain.Listing, error) {
	sqlQuery := `
		SELECT ` + listingColumns + `
		FROM listings
		WHERE kind = $1 AND status = $2 AND name ILIKE '%' || $3 || '%'
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5;
	`
	rows, err := r.Pool.Query(ctx, sqlQuery, domain.KindDonation, domain.ListingAvailable, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search donations: %w", err)
	}
	return collectListings(rows)
}

// UpdateListing updates an existing listing's details. Status is deliberately
// absent from the SET clause; status moves only through the lock operations.
func (r *PgxListingRepository) UpdateListing(ctx context.Context, listing domain.Listing) error {
	query := `
		UPDATE listings
		SET name = $2, quantity = $3, expiry_date = $4, location = $5, last_updated_at = $6, last_updated_by = $7
		WHERE listing_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		listing.ListingID,
		listing.Name,
		listing.Quantity,
		listing.ExpiryDate,
		listing.Location,
		listing.LastUpdatedAt,
		listing.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listing.ListingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteListing removes a listing; proof images go with it via ON DELETE CASCADE.
func (r *PgxListingRepository) DeleteListing(ctx context.Context, listingID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM listings WHERE listing_id = $1;`, listingID)
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindListingsByIDsForUpdate selects listings and locks their rows for update
// within a transaction. Returns ErrNotFound unless every requested listing
// was found and locked.
func (r *PgxListingRepository) FindListingsByIDsForUpdate(ctx context.Context, tx pgx.Tx, listingIDs []string) (map[string]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE listing_id = ANY($1) FOR UPDATE;`
	rows, err := tx.Query(ctx, query, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock listings: %w", err)
	}
	listings, err := collectListings(rows)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Listing, len(listings))
	for _, l := range listings {
		result[l.ListingID] = l
	}
	for _, id := range listingIDs {
		if _, ok := result[id]; !ok {
			return nil, fmt.Errorf("listing %s: %w", id, apperrors.ErrNotFound)
		}
	}
	return result, nil
}

// UpdateListingStatusesInTx sets the status of the given listings within a transaction.
func (r *PgxListingRepository) UpdateListingStatusesInTx(ctx context.Context, tx pgx.Tx, listingIDs []string, status domain.ListingStatus) error {
	tag, err := tx.Exec(ctx, `UPDATE listings SET status = $2, last_updated_at = now() WHERE listing_id = ANY($1);`, listingIDs, status)
	if err != nil {
		return fmt.Errorf("failed to update listing statuses: %w", err)
	}
	if int(tag.RowsAffected()) != len(listingIDs) {
		return fmt.Errorf("expected to update %d listings, updated %d: %w", len(listingIDs), tag.RowsAffected(), apperrors.ErrNotFound)
	}
	return nil
}
