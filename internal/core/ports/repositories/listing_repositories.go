package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// ListingReader defines read operations for listing data
type ListingReader interface {
	// FindListingByID retrieves a specific listing by its unique identifier.
	FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error)

	// ListByOwner retrieves all listings of the given kind owned by a user, newest first.
	ListByOwner(ctx context.Context, ownerID string, kind domain.ListingKind) ([]domain.Listing, error)

	// SearchAvailableDonations retrieves AVAILABLE donation listings whose
	// medicine name matches the query, case-insensitively.
	SearchAvailableDonations(ctx context.Context, query string, limit int, offset int) ([]domain.Listing, error)
}

// ListingWriter defines write operations for listing data
type ListingWriter interface {
	// SaveListing persists a new listing.
	SaveListing(ctx context.Context, listing domain.Listing) error

	// UpdateListing updates an existing listing's details. Status is not
	// touched here; status moves only through the lock operations below.
	UpdateListing(ctx context.Context, listing domain.Listing) error

	// DeleteListing removes a listing and its proof images.
	DeleteListing(ctx context.Context, listingID string) error
}

// ListingLockSupport defines the lock operations the match ledger drives.
// Both run inside the ledger's transaction so the availability check and the
// status write form one atomic check-and-set.
type ListingLockSupport interface {
	// FindListingsByIDsForUpdate selects listings and locks their rows for
	// update within a transaction.
	FindListingsByIDsForUpdate(ctx context.Context, tx pgx.Tx, listingIDs []string) (map[string]domain.Listing, error)

	// UpdateListingStatusesInTx sets the status of the given listings within
	// a transaction.
	UpdateListingStatusesInTx(ctx context.Context, tx pgx.Tx, listingIDs []string, status domain.ListingStatus) error
}

// ListingRepositoryFacade combines all listing-related repository interfaces
// This is a facade for clients that need access to all operations
type ListingRepositoryFacade interface {
	ListingReader
	ListingWriter
	ListingLockSupport
}
