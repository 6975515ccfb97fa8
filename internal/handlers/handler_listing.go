package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	"github.com/medimatch/medimatch_backend/internal/core/domain"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/dto"
	"github.com/medimatch/medimatch_backend/internal/middleware"
)

// listingHandler handles HTTP requests related to listings and their proof images.
type listingHandler struct {
	listingService portssvc.ListingSvcFacade
}

func newListingHandler(ls portssvc.ListingSvcFacade) *listingHandler {
	return &listingHandler{
		listingService: ls,
	}
}

// registerListingRoutes registers all listing-related routes.
func registerListingRoutes(rg *gin.RouterGroup, listingService portssvc.ListingSvcFacade) {
	h := newListingHandler(listingService)

	listings := rg.Group("/listings")
	{
		listings.POST("", h.createListing)
		// Listing reads are state-of-the-world views; never let clients cache them.
		listings.GET("", middleware.NoCache(), h.listOwnListings)
		listings.GET("/donations/search", middleware.NoCache(), h.searchDonations)
		listings.GET("/:id", middleware.NoCache(), h.getListing)
		listings.PUT("/:id", h.updateListing)
		listings.DELETE("/:id", h.deleteListing)
		listings.POST("/:id/proofs", h.addProofImage)
		listings.GET("/:id/proofs", middleware.NoCache(), h.listProofImages)
	}

	proofs := rg.Group("/proofs")
	{
		proofs.DELETE("/:id", h.deleteProofImage)
	}
}

// createListing godoc
// @Summary Create a listing
// @Description Creates a donation or request listing owned by the caller, optionally with initial proof image records. DONOR accounts create DONATION listings, REQUESTER accounts create REQUEST listings.
// @Tags listings
// @Accept json
// @Produce json
// @Param listing body dto.CreateListingRequest true "Listing details"
// @Success 201 {object} dto.ListingResponse
// @Failure 400 {object} ErrorResponse "Invalid input or role does not fit listing kind"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings [post]
func (h *listingHandler) createListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create listing", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create listing"})
		return
	}

	logger.Info("Listing created", slog.String("listing_id", listing.ListingID))
	c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

// listOwnListings godoc
// @Summary List own listings
// @Description Retrieves the caller's listings of the given kind
// @Tags listings
// @Produce json
// @Param kind query string true "Listing kind (DONATION or REQUEST)"
// @Success 200 {array} dto.ListingResponse
// @Failure 400 {object} ErrorResponse "Missing or invalid kind"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings [get]
func (h *listingHandler) listOwnListings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	kind := domain.ListingKind(c.Query("kind"))
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'kind' must be DONATION or REQUEST"})
		return
	}

	listings, err := h.listingService.ListOwnListings(c.Request.Context(), userID, kind)
	if err != nil {
		logger.Error("Failed to list listings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list listings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListListingResponse(listings))
}

// searchDonations godoc
// @Summary Search available donations
// @Description Retrieves AVAILABLE donation listings whose medicine name matches the query. This is the requester's pick list for initiating a match.
// @Tags listings
// @Produce json
// @Param q query string true "Medicine name fragment"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset (default 0)"
// @Success 200 {array} dto.ListingResponse
// @Failure 400 {object} ErrorResponse "Missing query"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/donations/search [get]
func (h *listingHandler) searchDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchDonationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'q' is required"})
		return
	}

	listings, err := h.listingService.SearchDonations(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to search donations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to search donations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListListingResponse(listings))
}

// getListing godoc
// @Summary Get a listing by ID
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} dto.ListingResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Listing not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{id} [get]
func (h *listingHandler) getListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	listingID := c.Param("id")

	listing, err := h.listingService.GetListingByID(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Listing not found"})
			return
		}
		logger.Error("Failed to retrieve listing", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve listing"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

// updateListing godoc
// @Summary Update a listing
// @Description Updates a listing's details. Only the owner may edit, and only while the listing is still AVAILABLE.
// @Tags listings
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param listing body dto.UpdateListingRequest true "Fields to update"
// @Success 200 {object} dto.ListingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Listing is locked by a match"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{id} [put]
func (h *listingHandler) updateListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	listing, err := h.listingService.UpdateListing(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondListingMutationError(c, logger, err, "update listing")
		return
	}

	c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

// deleteListing godoc
// @Summary Delete a listing
// @Description Deletes a listing and its proof image records. Only the owner may delete, and only while the listing is still AVAILABLE.
// @Tags listings
// @Param id path string true "Listing ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Listing is locked by a match"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{id} [delete]
func (h *listingHandler) deleteListing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.listingService.DeleteListing(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondListingMutationError(c, logger, err, "delete listing")
		return
	}

	c.Status(http.StatusNoContent)
}

// addProofImage godoc
// @Summary Attach a proof image record
// @Description Attaches a proof image record (storage reference) to an AVAILABLE listing owned by the caller.
// @Tags listings
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param proof body dto.AddProofImageRequest true "Proof image record"
// @Success 201 {object} dto.ProofImageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Listing is locked by a match"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{id}/proofs [post]
func (h *listingHandler) addProofImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.AddProofImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	proof, err := h.listingService.AddProofImage(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondListingMutationError(c, logger, err, "add proof image")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProofImageResponse(proof))
}

// listProofImages godoc
// @Summary List a listing's proof images
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {array} dto.ProofImageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Listing not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /listings/{id}/proofs [get]
func (h *listingHandler) listProofImages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	proofs, err := h.listingService.ListProofImages(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Listing not found"})
			return
		}
		logger.Error("Failed to list proof images", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list proof images"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListProofImageResponse(proofs))
}

// deleteProofImage godoc
// @Summary Delete a proof image record
// @Description Removes a proof image record while its listing is still AVAILABLE. Only the listing owner may delete.
// @Tags listings
// @Param id path string true "Proof image ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Listing is locked by a match"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /proofs/{id} [delete]
func (h *listingHandler) deleteProofImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.listingService.DeleteProofImage(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondListingMutationError(c, logger, err, "delete proof image")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondListingMutationError maps the shared error set of listing mutations
// onto HTTP statuses.
func respondListingMutationError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Listing is locked by an active match"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}
