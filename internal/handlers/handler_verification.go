package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/dto"
	"github.com/medimatch/medimatch_backend/internal/middleware"
)

// verificationHandler handles the doctor-facing review queue.
type verificationHandler struct {
	verificationService portssvc.VerificationSvcFacade
	matchService        portssvc.MatchSvcFacade
}

func newVerificationHandler(vs portssvc.VerificationSvcFacade, ms portssvc.MatchSvcFacade) *verificationHandler {
	return &verificationHandler{
		verificationService: vs,
		matchService:        ms,
	}
}

// registerVerificationRoutes registers all verification-related routes.
func registerVerificationRoutes(rg *gin.RouterGroup, verificationService portssvc.VerificationSvcFacade, matchService portssvc.MatchSvcFacade) {
	h := newVerificationHandler(verificationService, matchService)

	verification := rg.Group("/verification")
	{
		verification.GET("/pending", middleware.NoCache(), h.listPending)
		verification.GET("/approved", middleware.NoCache(), h.listApproved)
		verification.POST("/:id/verify", h.verifyMatch)
	}
}

// listPending godoc
// @Summary List matches awaiting verification
// @Description Retrieves the matches waiting on a doctor review, newest first. DOCTOR role required.
// @Tags verification
// @Produce json
// @Success 200 {array} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not a doctor"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /verification/pending [get]
func (h *verificationHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	matches, err := h.verificationService.ListPendingVerification(c.Request.Context(), userID)
	if err != nil {
		respondMatchError(c, logger, err, "list pending verifications")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMatchResponse(matches))
}

// listApproved godoc
// @Summary List matches verified by the caller
// @Description Retrieves the matches whose proof images the calling doctor has approved, newest first. DOCTOR role required.
// @Tags verification
// @Produce json
// @Success 200 {array} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not a doctor"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /verification/approved [get]
func (h *verificationHandler) listApproved(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	matches, err := h.verificationService.ListVerifiedBy(c.Request.Context(), userID)
	if err != nil {
		respondMatchError(c, logger, err, "list approved verifications")
		return
	}

	c.JSON(http.StatusOK, dto.ToListMatchResponse(matches))
}

// verifyMatch godoc
// @Summary Verify a match (doctor)
// @Description Finalizes an AWAITING_VERIFICATION match: approves all proof images on both listings, locks the listings to MATCHED and reveals both parties' contact details to each other. DOCTOR role required; a second verification attempt is rejected without side effects.
// @Tags verification
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not a doctor"
// @Failure 404 {object} ErrorResponse "Match not found"
// @Failure 409 {object} ErrorResponse "Match is not AWAITING_VERIFICATION"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /verification/{id}/verify [post]
func (h *verificationHandler) verifyMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	match, err := h.matchService.VerifyMatch(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondMatchError(c, logger, err, "verify match")
		return
	}

	logger.Info("Match verified", slog.String("match_id", match.MatchID), slog.String("reviewer_id", userID))
	c.JSON(http.StatusOK, dto.ToMatchResponse(match))
}
