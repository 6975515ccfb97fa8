package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/core/services"
	"github.com/medimatch/medimatch_backend/internal/dto"
	"github.com/medimatch/medimatch_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

// --- RegisterUser ---

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Test Donor",
		Email:    "donor@example.com",
		Phone:    "0912345678",
		Password: "password123",
		Role:     domain.RoleDonor,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email && user.Role == domain.RoleDonor && user.UserID != ""
	}), mock.MatchedBy(func(hash string) bool {
		// The stored credential must be a hash, not the raw password.
		return hash != req.Password && utils.CheckPasswordHash(req.Password, hash)
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal(req.Email, user.Email)
	suite.Equal(domain.RoleDonor, user.Role)
	suite.NotEmpty(user.UserID)
	suite.Equal(user.UserID, user.CreatedBy) // self-registration
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Test Donor",
		Email:    "donor@example.com",
		Password: "password123",
		Role:     domain.RoleDonor,
	}
	existing := &domain.User{UserID: uuid.NewString(), Email: req.Email}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(existing, nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_UnknownRole() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Nobody",
		Email:    "nobody@example.com",
		Password: "password123",
		Role:     domain.UserRole("ADMIN"),
	}

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- AuthenticateUser ---

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "password123"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "donor@example.com", Role: domain.RoleDonor}

	suite.mockUserRepo.On("FindPasswordHashByEmail", ctx, user.Email).Return(user, hash, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, password)

	suite.Require().NoError(err)
	suite.Equal(user, got)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-password")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "donor@example.com"}

	suite.mockUserRepo.On("FindPasswordHashByEmail", ctx, user.Email).Return(user, hash, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.Email, "wrong-password")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailSameError() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindPasswordHashByEmail", ctx, "ghost@example.com").Return(nil, "", apperrors.ErrNotFound).Once()

	got, err := suite.service.AuthenticateUser(ctx, "ghost@example.com", "whatever")

	suite.Require().Error(err)
	suite.Nil(got)
	// Unknown email and wrong password are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- UpdateUser ---

func (suite *UserServiceTestSuite) TestUpdateUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, Name: "Old Name", Phone: "111"}
	newName := "New Name"

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == userID && u.Name == newName && u.Phone == "111"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Name: &newName}, userID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.Name)
}

func (suite *UserServiceTestSuite) TestUpdateUser_OnlyOwnProfile() {
	ctx := context.Background()
	userID := uuid.NewString()
	otherID := uuid.NewString()
	newName := "New Name"

	updated, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{Name: &newName}, otherID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

// --- GetUserByID ---

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.GetUserByID(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
