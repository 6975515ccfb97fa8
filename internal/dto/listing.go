package dto

import (
	"time"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// CreateListingRequest defines the data needed to create a new listing.
// Donors create DONATION listings, requesters create REQUEST listings.
type CreateListingRequest struct {
	Name       string                 `json:"name" binding:"required"`
	Quantity   int                    `json:"quantity" binding:"required,min=1"`
	ExpiryDate *time.Time             `json:"expiryDate"`
	Kind       domain.ListingKind     `json:"kind" binding:"required,oneof=DONATION REQUEST"`
	Location   string                 `json:"location"`
	Proofs     []AddProofImageRequest `json:"proofs"` // Optional initial proof image records
}

// UpdateListingRequest defines the data allowed for updating a listing.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateListingRequest struct {
	Name       *string    `json:"name"`
	Quantity   *int       `json:"quantity" binding:"omitempty,min=1"`
	ExpiryDate *time.Time `json:"expiryDate"`
	Location   *string    `json:"location"`
}

// SearchDonationsParams defines query parameters for the donation search.
type SearchDonationsParams struct {
	Query  string `form:"q" binding:"required"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListingResponse defines the data returned for a listing.
type ListingResponse struct {
	ListingID  string               `json:"listingID"`
	OwnerID    string               `json:"ownerID"`
	Name       string               `json:"name"`
	Quantity   int                  `json:"quantity"`
	ExpiryDate *time.Time           `json:"expiryDate,omitempty"`
	Kind       domain.ListingKind   `json:"kind"`
	Status     domain.ListingStatus `json:"status"`
	Location   string               `json:"location"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// ToListingResponse converts a domain.Listing to ListingResponse DTO
func ToListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ListingID:  l.ListingID,
		OwnerID:    l.OwnerID,
		Name:       l.Name,
		Quantity:   l.Quantity,
		ExpiryDate: l.ExpiryDate,
		Kind:       l.Kind,
		Status:     l.Status,
		Location:   l.Location,
		CreatedAt:  l.CreatedAt,
	}
}

// ToListListingResponse converts a slice of domain.Listing to response DTOs
func ToListListingResponse(listings []domain.Listing) []ListingResponse {
	res := make([]ListingResponse, len(listings))
	for i, l := range listings {
		res[i] = ToListingResponse(&l)
	}
	return res
}

// AddProofImageRequest defines the data needed to attach a proof image record.
type AddProofImageRequest struct {
	StorageRef string           `json:"storageRef" binding:"required"`
	Kind       domain.ProofKind `json:"kind" binding:"required,oneof=DONATION_PHOTO PRESCRIPTION"`
}

// ProofImageResponse defines the data returned for a proof image.
type ProofImageResponse struct {
	ProofID    string           `json:"proofID"`
	ListingID  string           `json:"listingID"`
	UploaderID string           `json:"uploaderID"`
	StorageRef string           `json:"storageRef"`
	Kind       domain.ProofKind `json:"kind"`
	Approved   bool             `json:"approved"`
	ApprovedBy *string          `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time       `json:"approvedAt,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// ToProofImageResponse converts a domain.ProofImage to ProofImageResponse DTO
func ToProofImageResponse(p *domain.ProofImage) ProofImageResponse {
	return ProofImageResponse{
		ProofID:    p.ProofID,
		ListingID:  p.ListingID,
		UploaderID: p.UploaderID,
		StorageRef: p.StorageRef,
		Kind:       p.Kind,
		Approved:   p.Approved,
		ApprovedBy: p.ApprovedBy,
		ApprovedAt: p.ApprovedAt,
		CreatedAt:  p.CreatedAt,
	}
}

// ToListProofImageResponse converts a slice of domain.ProofImage to response DTOs
func ToListProofImageResponse(proofs []domain.ProofImage) []ProofImageResponse {
	res := make([]ProofImageResponse, len(proofs))
	for i, p := range proofs {
		res[i] = ToProofImageResponse(&p)
	}
	return res
}
