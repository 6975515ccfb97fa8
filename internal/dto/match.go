package dto

import (
	"time"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// InitiateMatchRequest defines the pairing a requester wants to create:
// someone else's donation listing against one of their own request listings.
type InitiateMatchRequest struct {
	DonorListingID     string `json:"donorListingID" binding:"required"`
	RequesterListingID string `json:"requesterListingID" binding:"required"`
}

// MatchResponse defines the data returned for a match.
type MatchResponse struct {
	MatchID            string             `json:"matchID"`
	DonorID            string             `json:"donorID"`
	RequesterID        string             `json:"requesterID"`
	DonorListingID     string             `json:"donorListingID"`
	RequesterListingID string             `json:"requesterListingID"`
	Status             domain.MatchStatus `json:"status"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
}

// ToMatchResponse converts a domain.Match to MatchResponse DTO
func ToMatchResponse(m *domain.Match) MatchResponse {
	return MatchResponse{
		MatchID:            m.MatchID,
		DonorID:            m.DonorID,
		RequesterID:        m.RequesterID,
		DonorListingID:     m.DonorListingID,
		RequesterListingID: m.RequesterListingID,
		Status:             m.Status,
		CreatedAt:          m.CreatedAt,
		LastUpdatedAt:      m.LastUpdatedAt,
	}
}

// ToListMatchResponse converts a slice of domain.Match to response DTOs
func ToListMatchResponse(matches []domain.Match) []MatchResponse {
	res := make([]MatchResponse, len(matches))
	for i, m := range matches {
		res[i] = ToMatchResponse(&m)
	}
	return res
}
