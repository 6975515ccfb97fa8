package services

import (
	portsrepo "github.com/medimatch/medimatch_backend/internal/core/ports/repositories"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Listing = NewListingService(repos.ListingRepo, repos.ProofRepo, repos.UserRepo)
	container.Match = NewMatchService(repos.MatchRepo, repos.ListingRepo, repos.UserRepo, notifier)
	container.Verification = NewVerificationService(repos.MatchRepo, repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.UserSvcFacade         = (*userService)(nil)
	_ portssvc.ListingSvcFacade      = (*listingService)(nil)
	_ portssvc.MatchSvcFacade        = (*matchService)(nil)
	_ portssvc.VerificationSvcFacade = (*verificationService)(nil)
)
