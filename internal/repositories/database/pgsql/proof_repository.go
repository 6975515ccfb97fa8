package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
)

type PgxProofRepository struct {
	BaseRepository
}

// newPgxProofRepository creates a new repository for proof image records.
func newPgxProofRepository(pool *pgxpool.Pool) portsrepo.ProofRepositoryFacade {
	return &PgxProofRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProofRepository implements portsrepo.ProofRepositoryFacade
var _ portsrepo.ProofRepositoryFacade = (*PgxProofRepository)(nil)

const proofColumns = `proof_id, listing_id, uploader_id, storage_ref, kind, approved, approved_by, approved_at, created_at`

func scanProofImage(row pgx.Row) (*domain.ProofImage, error) {
	var proof domain.ProofImage
	err := row.Scan(
		&proof.ProofID,
		&proof.ListingID,
		&proof.UploaderID,
		&proof.StorageRef,
		&proof.Kind,
		&proof.Approved,
		&proof.ApprovedBy,
		&proof.ApprovedAt,
		&proof.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan proof image: %w", err)
	}
	return &proof, nil
}

// SaveProofImage persists a new proof image record.
func (r *PgxProofRepository) SaveProofImage(ctx context.Context, proof domain.ProofImage) error {
	query := `
		INSERT INTO proof_images (proof_id, listing_id, uploader_id, storage_ref, kind, approved, approved_by, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		proof.ProofID,
		proof.ListingID,
		proof.UploaderID,
		proof.StorageRef,
		proof.Kind,
		proof.Approved,
		proof.ApprovedBy,
		proof.ApprovedAt,
		proof.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert proof image %s: %w", proof.ProofID, err)
	}
	return nil
}

// FindProofImageByID retrieves a specific proof image by its identifier.
func (r *PgxProofRepository) FindProofImageByID(ctx context.Context, proofID string) (*domain.ProofImage, error) {
	query := `SELECT ` + proofColumns + ` FROM proof_images WHERE proof_id = $1;`
	return scanProofImage(r.Pool.QueryRow(ctx, query, proofID))
}

// ListProofImagesByListing retrieves all proof images attached to a listing.
func (r *PgxProofRepository) ListProofImagesByListing(ctx context.Context, listingID string) ([]domain.ProofImage, error) {
	query := `SELECT ` + proofColumns + ` FROM proof_images WHERE listing_id = $1 ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query proof images for listing %s: %w", listingID, err)
	}
	defer rows.Close()

	proofs := []domain.ProofImage{}
	for rows.Next() {
		proof, err := scanProofImage(rows)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, *proof)
	}
	return proofs, rows.Err()
}

// DeleteProofImage removes a proof image record.
func (r *PgxProofRepository) DeleteProofImage(ctx context.Context, proofID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM proof_images WHERE proof_id = $1;`, proofID)
	if err != nil {
		return fmt.Errorf("failed to delete proof image %s: %w", proofID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApproveProofImagesForListingsInTx stamps every unapproved proof image on
// the given listings as approved by the reviewer. Approval is one-way;
// already-approved rows are left untouched.
func (r *PgxProofRepository) ApproveProofImagesForListingsInTx(ctx context.Context, tx pgx.Tx, listingIDs []string, reviewerID string, now time.Time) error {
	query := `
		UPDATE proof_images
		SET approved = TRUE, approved_by = $2, approved_at = $3
		WHERE listing_id = ANY($1) AND approved = FALSE;
	`
	if _, err := tx.Exec(ctx, query, listingIDs, reviewerID, now); err != nil {
		return fmt.Errorf("failed to approve proof images: %w", err)
	}
	return nil
}
