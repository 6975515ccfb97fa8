package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/core/services"
	"github.com/medimatch/medimatch_backend/internal/dto"
)

// --- Test Suite ---

type MatchServiceTestSuite struct {
	suite.Suite
	mockMatchRepo   *MockMatchRepository
	mockListingRepo *MockListingRepository
	mockUserRepo    *MockUserRepository
	mockNotifier    *MockNotifier
	service         portssvc.MatchSvcFacade

	donorID     string
	requesterID string
	doctorID    string
}

func (suite *MatchServiceTestSuite) SetupTest() {
	suite.mockMatchRepo = new(MockMatchRepository)
	suite.mockListingRepo = new(MockListingRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewMatchService(suite.mockMatchRepo, suite.mockListingRepo, suite.mockUserRepo, suite.mockNotifier)

	suite.donorID = uuid.NewString()
	suite.requesterID = uuid.NewString()
	suite.doctorID = uuid.NewString()
}

func (suite *MatchServiceTestSuite) donationListing(status domain.ListingStatus) *domain.Listing {
	return &domain.Listing{
		ListingID: uuid.NewString(),
		OwnerID:   suite.donorID,
		Name:      "Tamoxifen 20mg",
		Quantity:  2,
		Kind:      domain.KindDonation,
		Status:    status,
	}
}

func (suite *MatchServiceTestSuite) requestListing(status domain.ListingStatus) *domain.Listing {
	return &domain.Listing{
		ListingID: uuid.NewString(),
		OwnerID:   suite.requesterID,
		Name:      "Tamoxifen 20mg",
		Quantity:  1,
		Kind:      domain.KindRequest,
		Status:    status,
	}
}

func (suite *MatchServiceTestSuite) pendingMatch() *domain.Match {
	return &domain.Match{
		MatchID:            uuid.NewString(),
		DonorID:            suite.donorID,
		RequesterID:        suite.requesterID,
		DonorListingID:     uuid.NewString(),
		RequesterListingID: uuid.NewString(),
		Status:             domain.MatchPending,
	}
}

// --- InitiateMatch ---

func (suite *MatchServiceTestSuite) TestInitiateMatch_Success() {
	ctx := context.Background()
	donation := suite.donationListing(domain.ListingAvailable)
	request := suite.requestListing(domain.ListingAvailable)
	donor := &domain.User{UserID: suite.donorID, Name: "Donor", Email: "donor@example.com", Role: domain.RoleDonor}

	suite.mockListingRepo.On("FindListingByID", ctx, donation.ListingID).Return(donation, nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, request.ListingID).Return(request, nil).Once()
	suite.mockMatchRepo.On("CreateMatch", ctx, mock.MatchedBy(func(m domain.Match) bool {
		return m.Status == domain.MatchPending &&
			m.DonorID == suite.donorID &&
			m.RequesterID == suite.requesterID &&
			m.DonorListingID == donation.ListingID &&
			m.RequesterListingID == request.ListingID
	})).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.donorID).Return(donor, nil).Once()
	suite.mockNotifier.On("Notify", ctx, donor.Email, "New request for your donation", mock.Anything).Return().Once()

	match, err := suite.service.InitiateMatch(ctx, dto.InitiateMatchRequest{
		DonorListingID:     donation.ListingID,
		RequesterListingID: request.ListingID,
	}, suite.requesterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(match)
	suite.Equal(domain.MatchPending, match.Status)
	suite.NotEmpty(match.MatchID)

	suite.mockMatchRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestInitiateMatch_KindMismatch() {
	ctx := context.Background()
	donation := suite.donationListing(domain.ListingAvailable)
	otherDonation := suite.donationListing(domain.ListingAvailable)

	suite.mockListingRepo.On("FindListingByID", ctx, donation.ListingID).Return(donation, nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, otherDonation.ListingID).Return(otherDonation, nil).Once()

	match, err := suite.service.InitiateMatch(ctx, dto.InitiateMatchRequest{
		DonorListingID:     donation.ListingID,
		RequesterListingID: otherDonation.ListingID,
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMatchRepo.AssertNotCalled(suite.T(), "CreateMatch", mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestInitiateMatch_NotOwnRequest() {
	ctx := context.Background()
	donation := suite.donationListing(domain.ListingAvailable)
	request := suite.requestListing(domain.ListingAvailable)
	stranger := uuid.NewString()

	suite.mockListingRepo.On("FindListingByID", ctx, donation.ListingID).Return(donation, nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, request.ListingID).Return(request, nil).Once()

	match, err := suite.service.InitiateMatch(ctx, dto.InitiateMatchRequest{
		DonorListingID:     donation.ListingID,
		RequesterListingID: request.ListingID,
	}, stranger)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MatchServiceTestSuite) TestInitiateMatch_OwnDonationRejected() {
	ctx := context.Background()
	donation := suite.donationListing(domain.ListingAvailable)
	donation.OwnerID = suite.requesterID
	request := suite.requestListing(domain.ListingAvailable)

	suite.mockListingRepo.On("FindListingByID", ctx, donation.ListingID).Return(donation, nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, request.ListingID).Return(request, nil).Once()

	match, err := suite.service.InitiateMatch(ctx, dto.InitiateMatchRequest{
		DonorListingID:     donation.ListingID,
		RequesterListingID: request.ListingID,
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MatchServiceTestSuite) TestInitiateMatch_ListingAlreadyClaimed() {
	ctx := context.Background()
	donation := suite.donationListing(domain.ListingPending)
	request := suite.requestListing(domain.ListingAvailable)

	suite.mockListingRepo.On("FindListingByID", ctx, donation.ListingID).Return(donation, nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, request.ListingID).Return(request, nil).Once()

	match, err := suite.service.InitiateMatch(ctx, dto.InitiateMatchRequest{
		DonorListingID:     donation.ListingID,
		RequesterListingID: request.ListingID,
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockMatchRepo.AssertNotCalled(suite.T(), "CreateMatch", mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestInitiateMatch_LostRace() {
	ctx := context.Background()
	donation := suite.donationListing(domain.ListingAvailable)
	request := suite.requestListing(domain.ListingAvailable)

	suite.mockListingRepo.On("FindListingByID", ctx, donation.ListingID).Return(donation, nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, request.ListingID).Return(request, nil).Once()
	// Another initiation claimed a listing between the read and the locked write.
	suite.mockMatchRepo.On("CreateMatch", ctx, mock.AnythingOfType("domain.Match")).Return(apperrors.ErrConflict).Once()

	match, err := suite.service.InitiateMatch(ctx, dto.InitiateMatchRequest{
		DonorListingID:     donation.ListingID,
		RequesterListingID: request.ListingID,
	}, suite.requesterID)

	suite.Require().Error(err)
	suite.Nil(match)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- AcceptMatch ---

func (suite *MatchServiceTestSuite) TestAcceptMatch_Success() {
	ctx := context.Background()
	match := suite.pendingMatch()
	donation := suite.donationListing(domain.ListingPending)
	requester := &domain.User{UserID: suite.requesterID, Email: "req@example.com", Role: domain.RoleRequester}

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockMatchRepo.On("TransitionMatchStatus", ctx, match.MatchID, domain.MatchPending, domain.MatchDonorAccepted, mock.Anything).Return(nil).Once()
	suite.mockListingRepo.On("FindListingByID", ctx, match.DonorListingID).Return(donation, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.requesterID).Return(requester, nil).Once()
	suite.mockNotifier.On("Notify", ctx, requester.Email, "Your request was accepted", mock.Anything).Return().Once()

	updated, err := suite.service.AcceptMatch(ctx, match.MatchID, suite.donorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.MatchDonorAccepted, updated.Status)
	suite.mockMatchRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestAcceptMatch_NotTheDonor() {
	ctx := context.Background()
	match := suite.pendingMatch()

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()

	updated, err := suite.service.AcceptMatch(ctx, match.MatchID, suite.requesterID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockMatchRepo.AssertNotCalled(suite.T(), "TransitionMatchStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestAcceptMatch_Replay() {
	ctx := context.Background()
	match := suite.pendingMatch()
	match.Status = domain.MatchDonorAccepted

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockMatchRepo.On("TransitionMatchStatus", ctx, match.MatchID, domain.MatchPending, domain.MatchDonorAccepted, mock.Anything).Return(apperrors.ErrInvalidState).Once()

	updated, err := suite.service.AcceptMatch(ctx, match.MatchID, suite.donorID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestAcceptMatch_NotFound() {
	ctx := context.Background()
	matchID := uuid.NewString()

	suite.mockMatchRepo.On("FindMatchByID", ctx, matchID).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.AcceptMatch(ctx, matchID, suite.donorID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ConfirmMatch ---

func (suite *MatchServiceTestSuite) TestConfirmMatch_Success_NotifiesDoctors() {
	ctx := context.Background()
	match := suite.pendingMatch()
	match.Status = domain.MatchDonorAccepted
	doctors := []domain.User{
		{UserID: uuid.NewString(), Email: "doc1@example.com", Role: domain.RoleDoctor},
		{UserID: uuid.NewString(), Email: "doc2@example.com", Role: domain.RoleDoctor},
	}

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockMatchRepo.On("TransitionMatchStatus", ctx, match.MatchID, domain.MatchDonorAccepted, domain.MatchAwaitingVerification, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUsersByRole", ctx, domain.RoleDoctor).Return(doctors, nil).Once()
	suite.mockNotifier.On("Notify", ctx, "doc1@example.com", "Match awaiting verification", mock.Anything).Return().Once()
	suite.mockNotifier.On("Notify", ctx, "doc2@example.com", "Match awaiting verification", mock.Anything).Return().Once()

	updated, err := suite.service.ConfirmMatch(ctx, match.MatchID, suite.requesterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.MatchAwaitingVerification, updated.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestConfirmMatch_OutOfOrder() {
	ctx := context.Background()
	match := suite.pendingMatch() // still PENDING, donor has not accepted

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockMatchRepo.On("TransitionMatchStatus", ctx, match.MatchID, domain.MatchDonorAccepted, domain.MatchAwaitingVerification, mock.Anything).Return(apperrors.ErrInvalidState).Once()

	updated, err := suite.service.ConfirmMatch(ctx, match.MatchID, suite.requesterID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUsersByRole", mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestConfirmMatch_NotTheRequester() {
	ctx := context.Background()
	match := suite.pendingMatch()
	match.Status = domain.MatchDonorAccepted

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()

	updated, err := suite.service.ConfirmMatch(ctx, match.MatchID, suite.donorID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MatchServiceTestSuite) TestConfirmMatch_DoctorLookupFailureDoesNotFailTransition() {
	ctx := context.Background()
	match := suite.pendingMatch()
	match.Status = domain.MatchDonorAccepted

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockMatchRepo.On("TransitionMatchStatus", ctx, match.MatchID, domain.MatchDonorAccepted, domain.MatchAwaitingVerification, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUsersByRole", ctx, domain.RoleDoctor).Return(nil, assert.AnError).Once()

	updated, err := suite.service.ConfirmMatch(ctx, match.MatchID, suite.requesterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.MatchAwaitingVerification, updated.Status)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- VerifyMatch ---

func (suite *MatchServiceTestSuite) TestVerifyMatch_Success_RevealsContacts() {
	ctx := context.Background()
	match := suite.pendingMatch()
	completed := *match
	completed.Status = domain.MatchCompleted
	doctor := &domain.User{UserID: suite.doctorID, Role: domain.RoleDoctor}
	donor := &domain.User{UserID: suite.donorID, Name: "Donor", Email: "donor@example.com", Phone: "111", Role: domain.RoleDonor}
	requester := &domain.User{UserID: suite.requesterID, Name: "Requester", Email: "req@example.com", Phone: "222", Role: domain.RoleRequester}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.doctorID).Return(doctor, nil).Once()
	suite.mockMatchRepo.On("CompleteMatch", ctx, match.MatchID, suite.doctorID, mock.Anything).Return(&completed, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.donorID).Return(donor, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.requesterID).Return(requester, nil).Once()

	containsContacts := func(body string) bool {
		return strings.Contains(body, donor.Phone) && strings.Contains(body, requester.Phone)
	}
	suite.mockNotifier.On("Notify", ctx, donor.Email, "Match completed & contact revealed", mock.MatchedBy(containsContacts)).Return().Once()
	suite.mockNotifier.On("Notify", ctx, requester.Email, "Match completed & contact revealed", mock.MatchedBy(containsContacts)).Return().Once()

	updated, err := suite.service.VerifyMatch(ctx, match.MatchID, suite.doctorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.MatchCompleted, updated.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *MatchServiceTestSuite) TestVerifyMatch_RequiresDoctorRole() {
	ctx := context.Background()
	matchID := uuid.NewString()
	donor := &domain.User{UserID: suite.donorID, Role: domain.RoleDonor}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.donorID).Return(donor, nil).Once()

	updated, err := suite.service.VerifyMatch(ctx, matchID, suite.donorID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockMatchRepo.AssertNotCalled(suite.T(), "CompleteMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestVerifyMatch_SecondVerifyRejectedWithoutSideEffects() {
	ctx := context.Background()
	matchID := uuid.NewString()
	doctor := &domain.User{UserID: suite.doctorID, Role: domain.RoleDoctor}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.doctorID).Return(doctor, nil).Once()
	suite.mockMatchRepo.On("CompleteMatch", ctx, matchID, suite.doctorID, mock.Anything).Return(nil, apperrors.ErrInvalidState).Once()

	updated, err := suite.service.VerifyMatch(ctx, matchID, suite.doctorID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MatchServiceTestSuite) TestVerifyMatch_ContactLookupFailureStillSucceeds() {
	ctx := context.Background()
	match := suite.pendingMatch()
	completed := *match
	completed.Status = domain.MatchCompleted
	doctor := &domain.User{UserID: suite.doctorID, Role: domain.RoleDoctor}
	requester := &domain.User{UserID: suite.requesterID, Email: "req@example.com", Role: domain.RoleRequester}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.doctorID).Return(doctor, nil).Once()
	suite.mockMatchRepo.On("CompleteMatch", ctx, match.MatchID, suite.doctorID, mock.Anything).Return(&completed, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.donorID).Return(nil, assert.AnError).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.requesterID).Return(requester, nil).Once()

	updated, err := suite.service.VerifyMatch(ctx, match.MatchID, suite.doctorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(domain.MatchCompleted, updated.Status)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Reads ---

func (suite *MatchServiceTestSuite) TestGetMatchByID_PartyCanRead() {
	ctx := context.Background()
	match := suite.pendingMatch()

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()

	got, err := suite.service.GetMatchByID(ctx, match.MatchID, suite.donorID)

	suite.Require().NoError(err)
	suite.Equal(match, got)
}

func (suite *MatchServiceTestSuite) TestGetMatchByID_StrangerForbidden() {
	ctx := context.Background()
	match := suite.pendingMatch()
	stranger := &domain.User{UserID: uuid.NewString(), Role: domain.RoleRequester}

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, stranger.UserID).Return(stranger, nil).Once()

	got, err := suite.service.GetMatchByID(ctx, match.MatchID, stranger.UserID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *MatchServiceTestSuite) TestGetMatchByID_DoctorCanRead() {
	ctx := context.Background()
	match := suite.pendingMatch()
	doctor := &domain.User{UserID: suite.doctorID, Role: domain.RoleDoctor}

	suite.mockMatchRepo.On("FindMatchByID", ctx, match.MatchID).Return(match, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, suite.doctorID).Return(doctor, nil).Once()

	got, err := suite.service.GetMatchByID(ctx, match.MatchID, suite.doctorID)

	suite.Require().NoError(err)
	suite.Equal(match, got)
}

func (suite *MatchServiceTestSuite) TestListMatchesForUser() {
	ctx := context.Background()
	matches := []domain.Match{*suite.pendingMatch(), *suite.pendingMatch()}

	suite.mockMatchRepo.On("ListMatchesByUser", ctx, suite.requesterID).Return(matches, nil).Once()

	got, err := suite.service.ListMatchesForUser(ctx, suite.requesterID)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func TestMatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MatchServiceTestSuite))
}
