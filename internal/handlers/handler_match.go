package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medimatch/medimatch_backend/internal/apperrors"
	portssvc "github.com/medimatch/medimatch_backend/internal/core/ports/services"
	"github.com/medimatch/medimatch_backend/internal/dto"
	"github.com/medimatch/medimatch_backend/internal/middleware"
)

// matchHandler handles HTTP requests for the match lifecycle.
type matchHandler struct {
	matchService portssvc.MatchSvcFacade
}

func newMatchHandler(ms portssvc.MatchSvcFacade) *matchHandler {
	return &matchHandler{
		matchService: ms,
	}
}

// RegisterMatchRoutes registers all match-related routes.
func RegisterMatchRoutes(rg *gin.RouterGroup, matchService portssvc.MatchSvcFacade) {
	h := newMatchHandler(matchService)

	matches := rg.Group("/matches")
	{
		matches.POST("", h.initiateMatch)
		// Match state is the thing clients poll; stale caches here mean
		// acting on a state that no longer exists.
		matches.GET("", middleware.NoCache(), h.listOwnMatches)
		matches.GET("/:id", middleware.NoCache(), h.getMatch)
		matches.POST("/:id/accept", h.acceptMatch)
		matches.POST("/:id/confirm", h.confirmMatch)
	}
}

// initiateMatch godoc
// @Summary Initiate a match
// @Description Pairs an AVAILABLE donation listing with one of the caller's own AVAILABLE request listings. Both listings are locked atomically; of two racing initiations exactly one succeeds.
// @Tags matches
// @Accept json
// @Produce json
// @Param match body dto.InitiateMatchRequest true "Listing pair"
// @Success 201 {object} dto.MatchResponse
// @Failure 400 {object} ErrorResponse "Invalid pairing (wrong kinds, self-match)"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Request listing is not the caller's, or caller is not a REQUESTER"
// @Failure 404 {object} ErrorResponse "Listing not found"
// @Failure 409 {object} ErrorResponse "A listing is no longer AVAILABLE"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /matches [post]
func (h *matchHandler) initiateMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.InitiateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	match, err := h.matchService.InitiateMatch(c.Request.Context(), req, userID)
	if err != nil {
		respondMatchError(c, logger, err, "initiate match")
		return
	}

	logger.Info("Match initiated", slog.String("match_id", match.MatchID))
	c.JSON(http.StatusCreated, dto.ToMatchResponse(match))
}

// listOwnMatches godoc
// @Summary List own matches
// @Description Retrieves the matches where the caller is donor or requester, newest first
// @Tags matches
// @Produce json
// @Success 200 {array} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /matches [get]
func (h *matchHandler) listOwnMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	matches, err := h.matchService.ListMatchesForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list matches", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list matches"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListMatchResponse(matches))
}

// getMatch godoc
// @Summary Get a match by ID
// @Description Retrieves a match the caller participates in
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not a party to the match"
// @Failure 404 {object} ErrorResponse "Match not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /matches/{id} [get]
func (h *matchHandler) getMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	match, err := h.matchService.GetMatchByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondMatchError(c, logger, err, "retrieve match")
		return
	}

	c.JSON(http.StatusOK, dto.ToMatchResponse(match))
}

// acceptMatch godoc
// @Summary Accept a match (donor)
// @Description Moves a PENDING match to DONOR_ACCEPTED. Only the donor side of the match may call this; replays are rejected.
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not the donor"
// @Failure 404 {object} ErrorResponse "Match not found"
// @Failure 409 {object} ErrorResponse "Match is not PENDING"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /matches/{id}/accept [post]
func (h *matchHandler) acceptMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	match, err := h.matchService.AcceptMatch(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondMatchError(c, logger, err, "accept match")
		return
	}

	logger.Info("Match accepted", slog.String("match_id", match.MatchID))
	c.JSON(http.StatusOK, dto.ToMatchResponse(match))
}

// confirmMatch godoc
// @Summary Confirm a match (requester)
// @Description Moves a DONOR_ACCEPTED match to AWAITING_VERIFICATION and alerts the doctor review queue. Only the requester side of the match may call this; replays are rejected.
// @Tags matches
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} dto.MatchResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Caller is not the requester"
// @Failure 404 {object} ErrorResponse "Match not found"
// @Failure 409 {object} ErrorResponse "Match is not DONOR_ACCEPTED"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /matches/{id}/confirm [post]
func (h *matchHandler) confirmMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	match, err := h.matchService.ConfirmMatch(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondMatchError(c, logger, err, "confirm match")
		return
	}

	logger.Info("Match confirmed", slog.String("match_id", match.MatchID))
	c.JSON(http.StatusOK, dto.ToMatchResponse(match))
}

// respondMatchError maps the shared error set of match operations onto HTTP
// statuses. Out-of-order transitions and lost claim races both surface as 409.
func respondMatchError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}
