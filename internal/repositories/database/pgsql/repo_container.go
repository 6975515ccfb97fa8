package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	listingRepo := newPgxListingRepository(dbPool)
	proofRepo := newPgxProofRepository(dbPool)
	matchRepo := newPgxMatchRepository(dbPool, listingRepo, proofRepo)

	return portsrepo.RepositoryProvider{
		UserRepo:    userRepo,
		ListingRepo: listingRepo,
		MatchRepo:   matchRepo,
		ProofRepo:   proofRepo,
	}
}
