package domain

import "time"

// MatchStatus is the state of a match in its linear lifecycle.
//
// Transitions only move forward:
//
//	PENDING -> DONOR_ACCEPTED -> AWAITING_VERIFICATION -> COMPLETED
//
// There is no cancel or reject transition; a match that never advances simply
// stays where it is, keeping both listings locked.
type MatchStatus string

const (
	MatchPending              MatchStatus = "PENDING"               // Requester initiated, donor not yet responded
	MatchDonorAccepted        MatchStatus = "DONOR_ACCEPTED"        // Donor accepted, requester must confirm
	MatchAwaitingVerification MatchStatus = "AWAITING_VERIFICATION" // Waiting on a doctor review
	MatchCompleted            MatchStatus = "COMPLETED"             // Terminal, contacts revealed
)

// Next returns the status that follows s, and false when s is terminal.
func (s MatchStatus) Next() (MatchStatus, bool) {
	switch s {
	case MatchPending:
		return MatchDonorAccepted, true
	case MatchDonorAccepted:
		return MatchAwaitingVerification, true
	case MatchAwaitingVerification:
		return MatchCompleted, true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to target is a legal single
// forward step of the lifecycle.
func (s MatchStatus) CanTransitionTo(target MatchStatus) bool {
	next, ok := s.Next()
	return ok && next == target
}

// Match pairs one donation listing with one request listing and tracks the
// pairing through acceptance, confirmation and doctor verification.
type Match struct {
	MatchID            string      `json:"matchID"` // Primary Key (UUID)
	DonorID            string      `json:"donorID"`
	RequesterID        string      `json:"requesterID"`
	DonorListingID     string      `json:"donorListingID"`     // FK -> listings, kind DONATION
	RequesterListingID string      `json:"requesterListingID"` // FK -> listings, kind REQUEST
	Status             MatchStatus `json:"status"`
	CreatedAt          time.Time   `json:"createdAt"`
	LastUpdatedAt      time.Time   `json:"lastUpdatedAt"`
}
