package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/core/services"
)

type VerificationServiceTestSuite struct {
	suite.Suite
	mockMatchRepo *MockMatchRepository
	mockUserRepo  *MockUserRepository
	service       portssvc.VerificationSvcFacade

	doctorID string
}

func (suite *VerificationServiceTestSuite) SetupTest() {
	suite.mockMatchRepo = new(MockMatchRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewVerificationService(suite.mockMatchRepo, suite.mockUserRepo)
	suite.doctorID = uuid.NewString()
}

func (suite *VerificationServiceTestSuite) doctor() *domain.User {
	return &domain.User{UserID: suite.doctorID, Role: domain.RoleDoctor}
}

func (suite *VerificationServiceTestSuite) TestListPendingVerification_Success() {
	ctx := context.Background()
	matches := []domain.Match{
		{MatchID: uuid.NewString(), Status: domain.MatchAwaitingVerification},
		{MatchID: uuid.NewString(), Status: domain.MatchAwaitingVerification},
	}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.doctorID).Return(suite.doctor(), nil).Once()
	suite.mockMatchRepo.On("ListMatchesByStatus", ctx, domain.MatchAwaitingVerification).Return(matches, nil).Once()

	got, err := suite.service.ListPendingVerification(ctx, suite.doctorID)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.mockMatchRepo.AssertExpectations(suite.T())
}

func (suite *VerificationServiceTestSuite) TestListPendingVerification_NonDoctorForbidden() {
	ctx := context.Background()
	donorID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, donorID).Return(&domain.User{UserID: donorID, Role: domain.RoleDonor}, nil).Once()

	got, err := suite.service.ListPendingVerification(ctx, donorID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockMatchRepo.AssertNotCalled(suite.T(), "ListMatchesByStatus", ctx, domain.MatchAwaitingVerification)
}

func (suite *VerificationServiceTestSuite) TestListVerifiedBy_Success() {
	ctx := context.Background()
	matches := []domain.Match{{MatchID: uuid.NewString(), Status: domain.MatchCompleted}}

	suite.mockUserRepo.On("FindUserByID", ctx, suite.doctorID).Return(suite.doctor(), nil).Once()
	suite.mockMatchRepo.On("ListMatchesVerifiedBy", ctx, suite.doctorID).Return(matches, nil).Once()

	got, err := suite.service.ListVerifiedBy(ctx, suite.doctorID)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func (suite *VerificationServiceTestSuite) TestListVerifiedBy_UnknownReviewer() {
	ctx := context.Background()
	reviewerID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, reviewerID).Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.ListVerifiedBy(ctx, reviewerID)

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestVerificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VerificationServiceTestSuite))
}
