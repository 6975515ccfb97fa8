package services

import (
	"context"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
	"github.com/medimatch/medimatch_backend/internal/dto"
)

// ListingReaderSvc defines read operations for listing data
type ListingReaderSvc interface {
	// GetListingByID retrieves a specific listing.
	GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error)

	// ListOwnListings retrieves the caller's listings of the given kind.
	ListOwnListings(ctx context.Context, ownerID string, kind domain.ListingKind) ([]domain.Listing, error)

	// SearchDonations retrieves AVAILABLE donation listings matching the
	// medicine-name query. This is the requester's manual pick list.
	SearchDonations(ctx context.Context, params dto.SearchDonationsParams) ([]domain.Listing, error)
}

// ListingWriterSvc defines write operations for listing data. All writes are
// owner-gated, and edits/deletes require the listing to still be AVAILABLE.
type ListingWriterSvc interface {
	// CreateListing persists a new listing, optionally with initial proof
	// image records.
	CreateListing(ctx context.Context, req dto.CreateListingRequest, creatorUserID string) (*domain.Listing, error)

	// UpdateListing updates a listing's details.
	UpdateListing(ctx context.Context, listingID string, req dto.UpdateListingRequest, requestingUserID string) (*domain.Listing, error)

	// DeleteListing removes a listing and its proof images.
	DeleteListing(ctx context.Context, listingID string, requestingUserID string) error
}

// ProofImageSvc defines proof-image record operations. The blob itself lives
// in external storage; only the reference is managed here.
type ProofImageSvc interface {
	// AddProofImage attaches a proof image record to a listing.
	AddProofImage(ctx context.Context, listingID string, req dto.AddProofImageRequest, uploaderUserID string) (*domain.ProofImage, error)

	// ListProofImages retrieves the proof images attached to a listing.
	ListProofImages(ctx context.Context, listingID string) ([]domain.ProofImage, error)

	// DeleteProofImage removes a proof image record while the listing is
	// still AVAILABLE.
	DeleteProofImage(ctx context.Context, proofID string, requestingUserID string) error
}

// ListingSvcFacade combines all listing-related service interfaces
// This is a facade for clients that need access to all operations
type ListingSvcFacade interface {
	ListingReaderSvc
	ListingWriterSvc
	ProofImageSvc
}
