package services

import (
	"context"
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

// listingService manages listing records and their proof images. It never
// writes listing status: status moves only through the match ledger's
// transactional lock calls.
type listingService struct {
	listingRepo portsrepo.ListingRepositoryFacade
	proofRepo   portsrepo.ProofRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewListingService creates a new ListingService.
func NewListingService(
	listingRepo portsrepo.ListingRepositoryFacade,
	proofRepo portsrepo.ProofRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
) portssvc.ListingSvcFacade {
	return &listingService{
		listingRepo: listingRepo,
		proofRepo:   proofRepo,
		userRepo:    userRepo,
	}
}

// Ensure listingService implements the portssvc.ListingSvcFacade interface
var _ portssvc.ListingSvcFacade = (*listingService)(nil)

// CreateListing persists a new listing for the caller. Donors create
// donations, requesters create requests; the creating role must fit the kind.
func (s *listingService) CreateListing(ctx context.Context, req dto.CreateListingRequest, creatorUserID string) (*domain.Listing, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		return nil, err
	}
	switch req.Kind {
	case domain.KindDonation:
		if creator.Role != domain.RoleDonor {
			return nil, fmt.Errorf("%w: only donors can add donations", apperrors.ErrUnauthorized)
		}
	case domain.KindRequest:
		if creator.Role != domain.RoleRequester {
			return nil, fmt.Errorf("%w: only requesters can add requests", apperrors.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("%w: unknown listing kind %q", apperrors.ErrValidation, req.Kind)
	}

	now := time.Now()
	listing := domain.Listing{
		ListingID:  uuid.NewString(),
		OwnerID:    creatorUserID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		ExpiryDate: req.ExpiryDate,
		Kind:       req.Kind,
		Status:     domain.ListingAvailable,
		Location:   req.Location,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.listingRepo.SaveListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	for _, p := range req.Proofs {
		proof := domain.ProofImage{
			ProofID:    uuid.NewString(),
			ListingID:  listing.ListingID,
			UploaderID: creatorUserID,
			StorageRef: p.StorageRef,
			Kind:       p.Kind,
			CreatedAt:  now,
		}
		if err := s.proofRepo.SaveProofImage(ctx, proof); err != nil {
			return nil, fmt.Errorf("failed to save proof image for listing %s: %w", listing.ListingID, err)
		}
	}

	logger.Info("Listing created",
		slog.String("listing_id", listing.ListingID),
		slog.String("kind", string(listing.Kind)))
	return &listing, nil
}

// GetListingByID retrieves a listing.
func (s *listingService) GetListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	return s.listingRepo.FindListingByID(ctx, listingID)
}

// ListOwnListings returns the caller's listings of one kind, newest first.
func (s *listingService) ListOwnListings(ctx context.Context, ownerID string, kind domain.ListingKind) ([]domain.Listing, error) {
	return s.listingRepo.ListByOwner(ctx, ownerID, kind)
}

// SearchDonations returns AVAILABLE donations matching the medicine name.
func (s *listingService) SearchDonations(ctx context.Context, params dto.SearchDonationsParams) ([]domain.Listing, error) {
	return s.listingRepo.SearchAvailableDonations(ctx, params.Query, params.Limit, params.Offset)
}

// UpdateListing edits a listing's details, owner only, while still AVAILABLE.
func (s *listingService) UpdateListing(ctx context.Context, listingID string, req dto.UpdateListingRequest, requestingUserID string) (*domain.Listing, error) {
	listing, err := s.editableListing(ctx, listingID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		listing.Name = *req.Name
	}
	if req.Quantity != nil {
		listing.Quantity = *req.Quantity
	}
	if req.ExpiryDate != nil {
		listing.ExpiryDate = req.ExpiryDate
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}
	listing.LastUpdatedAt = time.Now()
	listing.LastUpdatedBy = requestingUserID

	if err := s.listingRepo.UpdateListing(ctx, *listing); err != nil {
		return nil, fmt.Errorf("failed to update listing %s: %w", listingID, err)
	}
	return listing, nil
}

// DeleteListing removes a listing and its proof images, owner only, while
// still AVAILABLE.
func (s *listingService) DeleteListing(ctx context.Context, listingID string, requestingUserID string) error {
	if _, err := s.editableListing(ctx, listingID, requestingUserID); err != nil {
		return err
	}
	if err := s.listingRepo.DeleteListing(ctx, listingID); err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", listingID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Listing deleted", slog.String("listing_id", listingID))
	return nil
}

// AddProofImage attaches a proof image record to one of the caller's listings
// while it is still AVAILABLE.
func (s *listingService) AddProofImage(ctx context.Context, listingID string, req dto.AddProofImageRequest, uploaderUserID string) (*domain.ProofImage, error) {
	if _, err := s.editableListing(ctx, listingID, uploaderUserID); err != nil {
		return nil, err
	}

	proof := domain.ProofImage{
		ProofID:    uuid.NewString(),
		ListingID:  listingID,
		UploaderID: uploaderUserID,
		StorageRef: req.StorageRef,
		Kind:       req.Kind,
		CreatedAt:  time.Now(),
	}
	if err := s.proofRepo.SaveProofImage(ctx, proof); err != nil {
		return nil, fmt.Errorf("failed to save proof image: %w", err)
	}
	return &proof, nil
}

// ListProofImages returns the proof images attached to a listing.
func (s *listingService) ListProofImages(ctx context.Context, listingID string) ([]domain.ProofImage, error) {
	return s.proofRepo.ListProofImagesByListing(ctx, listingID)
}

// DeleteProofImage removes one of the caller's proof image records while the
// owning listing is still AVAILABLE. Approved images are past the point of
// deletion because their listing is no longer AVAILABLE.
func (s *listingService) DeleteProofImage(ctx context.Context, proofID string, requestingUserID string) error {
	proof, err := s.proofRepo.FindProofImageByID(ctx, proofID)
	if err != nil {
		return err
	}
	if proof.UploaderID != requestingUserID {
		return fmt.Errorf("%w: only the uploader may delete a proof image", apperrors.ErrUnauthorized)
	}
	if _, err := s.editableListing(ctx, proof.ListingID, requestingUserID); err != nil {
		return err
	}
	return s.proofRepo.DeleteProofImage(ctx, proofID)
}

// editableListing loads a listing and enforces the owner + AVAILABLE guard
// shared by every mutation.
func (s *listingService) editableListing(ctx context.Context, listingID string, requestingUserID string) (*domain.Listing, error) {
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != requestingUserID {
		return nil, fmt.Errorf("%w: listing belongs to another user", apperrors.ErrUnauthorized)
	}
	if !listing.IsEditable() {
		return nil, fmt.Errorf("%w: listing is locked by a match", apperrors.ErrConflict)
	}
	return listing, nil
}
