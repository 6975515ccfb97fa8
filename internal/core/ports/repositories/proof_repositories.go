package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// ProofReader defines read operations for proof image data
type ProofReader interface {
	// FindProofImageByID retrieves a specific proof image by its identifier.
	FindProofImageByID(ctx context.Context, proofID string) (*domain.ProofImage, error)

	// ListProofImagesByListing retrieves all proof images attached to a listing.
	ListProofImagesByListing(ctx context.Context, listingID string) ([]domain.ProofImage, error)
}

// ProofWriter defines write operations for proof image data
type ProofWriter interface {
	// SaveProofImage persists a new proof image record.
	SaveProofImage(ctx context.Context, proof domain.ProofImage) error

	// DeleteProofImage removes a proof image record.
	DeleteProofImage(ctx context.Context, proofID string) error
}

// ProofApprovalSupport defines the bulk approval write driven by match
// completion. It runs inside the ledger's transaction.
type ProofApprovalSupport interface {
	// ApproveProofImagesForListingsInTx stamps every unapproved proof image
	// on the given listings as approved by the reviewer.
	ApproveProofImagesForListingsInTx(ctx context.Context, tx pgx.Tx, listingIDs []string, reviewerID string, now time.Time) error
}

// ProofRepositoryFacade combines all proof-image repository interfaces
// This is a facade for clients that need access to all operations
type ProofRepositoryFacade interface {
	ProofReader
	ProofWriter
	ProofApprovalSupport
}
