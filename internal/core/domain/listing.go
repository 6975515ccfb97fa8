package domain

import "time"

// ListingKind distinguishes a medicine offered for donation from one being requested.
type ListingKind string

const (
	KindDonation ListingKind = "DONATION"
	KindRequest  ListingKind = "REQUEST"
)

// IsValid checks if the listing kind is one of the predefined constants.
func (k ListingKind) IsValid() bool {
	switch k {
	case KindDonation, KindRequest:
		return true
	default:
		return false
	}
}

// ListingStatus is the availability state of a listing.
//
// A listing leaves AVAILABLE exactly once, when a match claims it, and from
// then on can never be selected by another match attempt.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "AVAILABLE" // Selectable as a match candidate
	ListingPending   ListingStatus = "PENDING"   // Claimed by an in-flight match
	ListingMatched   ListingStatus = "MATCHED"   // Terminal, match completed
)

// Listing represents a medicine donation or request posted by a user.
type Listing struct {
	ListingID  string        `json:"listingID"` // Primary Key (UUID)
	OwnerID    string        `json:"ownerID"`   // FK -> users.user_id
	Name       string        `json:"name"`      // Medicine name, e.g. "Tamoxifen 20mg"
	Quantity   int           `json:"quantity"`
	ExpiryDate *time.Time    `json:"expiryDate,omitempty"`
	Kind       ListingKind   `json:"kind"`
	Status     ListingStatus `json:"status"`
	Location   string        `json:"location"` // Free-form address or GPS string
	AuditFields
}

// IsEditable reports whether the owner may still edit or delete the listing.
// Once a match has locked the listing, its content is frozen.
func (l Listing) IsEditable() bool {
	return l.Status == ListingAvailable
}
