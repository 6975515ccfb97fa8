package domain

import "time"

// ProofKind identifies what an uploaded proof image evidences.
type ProofKind string

const (
	ProofDonationPhoto ProofKind = "DONATION_PHOTO"
	ProofPrescription  ProofKind = "PRESCRIPTION"
)

// ProofImage is an evidentiary artifact attached to a listing, subject to
// doctor approval before a match can reveal contact details. The actual blob
// lives in external storage; StorageRef points at it.
type ProofImage struct {
	ProofID    string     `json:"proofID"`   // Primary Key (UUID)
	ListingID  string     `json:"listingID"` // FK -> listings.listing_id
	UploaderID string     `json:"uploaderID"`
	StorageRef string     `json:"storageRef"`
	Kind       ProofKind  `json:"kind"`
	Approved   bool       `json:"approved"`
	ApprovedBy *string    `json:"approvedBy,omitempty"` // Reviewer user ID, nil until approved
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
