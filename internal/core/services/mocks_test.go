package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/medimatch/medimatch_backend/internal/core/domain"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsersByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindPasswordHashByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.String(1), args.Error(2)
}

// --- Mock ListingRepository ---

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	args := m.Called(ctx, listingID)
	var listing *domain.Listing
	if args.Get(0) != nil {
		listing = args.Get(0).(*domain.Listing)
	}
	return listing, args.Error(1)
}

func (m *MockListingRepository) ListByOwner(ctx context.Context, ownerID string, kind domain.ListingKind) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID, kind)
	var listings []domain.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).([]domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *MockListingRepository) SearchAvailableDonations(ctx context.Context, query string, limit int, offset int) ([]domain.Listing, error) {
	args := m.Called(ctx, query, limit, offset)
	var listings []domain.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).([]domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *MockListingRepository) SaveListing(ctx context.Context, listing domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) UpdateListing(ctx context.Context, listing domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) DeleteListing(ctx context.Context, listingID string) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

func (m *MockListingRepository) FindListingsByIDsForUpdate(ctx context.Context, tx pgx.Tx, listingIDs []string) (map[string]domain.Listing, error) {
	args := m.Called(ctx, tx, listingIDs)
	var listings map[string]domain.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).(map[string]domain.Listing)
	}
	return listings, args.Error(1)
}

func (m *MockListingRepository) UpdateListingStatusesInTx(ctx context.Context, tx pgx.Tx, listingIDs []string, status domain.ListingStatus) error {
	args := m.Called(ctx, tx, listingIDs, status)
	return args.Error(0)
}

// --- Mock MatchRepository ---

type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) FindMatchByID(ctx context.Context, matchID string) (*domain.Match, error) {
	args := m.Called(ctx, matchID)
	var match *domain.Match
	if args.Get(0) != nil {
		match = args.Get(0).(*domain.Match)
	}
	return match, args.Error(1)
}

func (m *MockMatchRepository) ListMatchesByUser(ctx context.Context, userID string) ([]domain.Match, error) {
	args := m.Called(ctx, userID)
	var matches []domain.Match
	if args.Get(0) != nil {
		matches = args.Get(0).([]domain.Match)
	}
	return matches, args.Error(1)
}

func (m *MockMatchRepository) ListMatchesByStatus(ctx context.Context, status domain.MatchStatus) ([]domain.Match, error) {
	args := m.Called(ctx, status)
	var matches []domain.Match
	if args.Get(0) != nil {
		matches = args.Get(0).([]domain.Match)
	}
	return matches, args.Error(1)
}

func (m *MockMatchRepository) ListMatchesVerifiedBy(ctx context.Context, reviewerID string) ([]domain.Match, error) {
	args := m.Called(ctx, reviewerID)
	var matches []domain.Match
	if args.Get(0) != nil {
		matches = args.Get(0).([]domain.Match)
	}
	return matches, args.Error(1)
}

func (m *MockMatchRepository) CreateMatch(ctx context.Context, match domain.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) TransitionMatchStatus(ctx context.Context, matchID string, from, to domain.MatchStatus, now time.Time) error {
	args := m.Called(ctx, matchID, from, to, now)
	return args.Error(0)
}

func (m *MockMatchRepository) CompleteMatch(ctx context.Context, matchID string, reviewerID string, now time.Time) (*domain.Match, error) {
	args := m.Called(ctx, matchID, reviewerID, now)
	var match *domain.Match
	if args.Get(0) != nil {
		match = args.Get(0).(*domain.Match)
	}
	return match, args.Error(1)
}

func (m *MockMatchRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockMatchRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockMatchRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ProofRepository ---

type MockProofRepository struct {
	mock.Mock
}

func (m *MockProofRepository) FindProofImageByID(ctx context.Context, proofID string) (*domain.ProofImage, error) {
	args := m.Called(ctx, proofID)
	var proof *domain.ProofImage
	if args.Get(0) != nil {
		proof = args.Get(0).(*domain.ProofImage)
	}
	return proof, args.Error(1)
}

func (m *MockProofRepository) ListProofImagesByListing(ctx context.Context, listingID string) ([]domain.ProofImage, error) {
	args := m.Called(ctx, listingID)
	var proofs []domain.ProofImage
	if args.Get(0) != nil {
		proofs = args.Get(0).([]domain.ProofImage)
	}
	return proofs, args.Error(1)
}

func (m *MockProofRepository) SaveProofImage(ctx context.Context, proof domain.ProofImage) error {
	args := m.Called(ctx, proof)
	return args.Error(0)
}

func (m *MockProofRepository) DeleteProofImage(ctx context.Context, proofID string) error {
	args := m.Called(ctx, proofID)
	return args.Error(0)
}

func (m *MockProofRepository) ApproveProofImagesForListingsInTx(ctx context.Context, tx pgx.Tx, listingIDs []string, reviewerID string, now time.Time) error {
	args := m.Called(ctx, tx, listingIDs, reviewerID, now)
	return args.Error(0)
}

// --- Mock Notifier ---

// MockNotifier records dispatched notifications. Notify never fails, matching
// the best-effort contract.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient string, subject string, body string) {
	m.Called(ctx, recipient, subject, body)
}
