package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// fundingHandler handles HTTP requests for fund allocations and their usage.
type fundingHandler struct {
	allocationSvc portssvc.AllocationSvcFacade
}

func newFundingHandler(allocationSvc portssvc.AllocationSvcFacade) *fundingHandler {
	return &fundingHandler{allocationSvc: allocationSvc}
}

// registerFundingRoutes registers allocation and usage routes.
func registerFundingRoutes(rg *gin.RouterGroup, allocationSvc portssvc.AllocationSvcFacade) {
	h := newFundingHandler(allocationSvc)

	fundings := rg.Group("/fundings")
	{
		fundings.POST("", h.allocateFunding)
		fundings.GET("/:id", h.getFunding)
		fundings.POST("/:id/usage", h.recordUsage)
	}

	rg.GET("/donations/:id/fundings", h.listFundingsByDonation)
	rg.GET("/situations/:situation_id/fundings", h.listFundingsBySituation)
}

// allocateFunding godoc
// @Summary Allocate donation nights to a housing situation
// @Description Commits nights from a verified donation to a situation and posts the allocation to the ledger
// @Tags fundings
// @Accept  json
// @Produce  json
// @Param   funding body dto.AllocateFundingRequest true "Allocation details"
// @Success 201 {object} dto.FundingResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation not allocatable or insufficient nights"
// @Failure 500 {object} map[string]string "Failed to allocate funding"
// @Security BearerAuth
// @Router /fundings [post]
func (h *fundingHandler) allocateFunding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AllocateFundingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for allocateFunding", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	funding, err := h.allocationSvc.Allocate(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to allocate funding",
				slog.String("donation_id", req.DonationID), slog.String("situation_id", req.SituationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate funding"})
		}
		return
	}

	logger.Info("Funding allocated",
		slog.String("funding_id", funding.FundingID), slog.Int("nights", funding.NightsAllocated))
	c.JSON(http.StatusCreated, dto.ToFundingResponse(*funding))
}

// getFunding godoc
// @Summary Get a fund allocation by ID
// @Tags fundings
// @Produce  json
// @Param   id path string true "Funding ID"
// @Success 200 {object} dto.FundingResponse
// @Failure 404 {object} map[string]string "Funding not found"
// @Failure 500 {object} map[string]string "Failed to retrieve funding"
// @Security BearerAuth
// @Router /fundings/{id} [get]
func (h *fundingHandler) getFunding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundingID := c.Param("id")

	funding, err := h.allocationSvc.GetFundingByID(c.Request.Context(), fundingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Funding not found"})
		} else {
			logger.Error("Failed to get funding", slog.String("funding_id", fundingID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve funding"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToFundingResponse(*funding))
}

// recordUsage godoc
// @Summary Record consumed nights on an allocation
// @Description Records how many allocated nights were actually used; capped at the nights remaining
// @Tags fundings
// @Accept  json
// @Produce  json
// @Param   id path string true "Funding ID"
// @Param   usage body dto.RecordUsageRequest true "Usage details"
// @Success 200 {object} dto.FundingResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Funding not found"
// @Failure 409 {object} map[string]string "No nights remaining"
// @Failure 500 {object} map[string]string "Failed to record usage"
// @Security BearerAuth
// @Router /fundings/{id}/usage [post]
func (h *fundingHandler) recordUsage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fundingID := c.Param("id")

	var req dto.RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	funding, err := h.allocationSvc.RecordUsage(c.Request.Context(), userID, fundingID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Funding not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record usage", slog.String("funding_id", fundingID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record usage"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToFundingResponse(*funding))
}

// listFundingsByDonation godoc
// @Summary List allocations made from a donation
// @Tags fundings
// @Produce  json
// @Param   id path string true "Donation ID"
// @Success 200 {array} dto.FundingResponse
// @Failure 500 {object} map[string]string "Failed to list fundings"
// @Security BearerAuth
// @Router /donations/{id}/fundings [get]
func (h *fundingHandler) listFundingsByDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	fundings, err := h.allocationSvc.GetFundingsByDonation(c.Request.Context(), donationID)
	if err != nil {
		logger.Error("Failed to list fundings by donation", slog.String("donation_id", donationID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fundings"})
		return
	}
	c.JSON(http.StatusOK, dto.ToFundingResponses(fundings))
}

// listFundingsBySituation godoc
// @Summary List allocations backing a housing situation
// @Tags fundings
// @Produce  json
// @Param   situation_id path string true "Situation ID"
// @Success 200 {array} dto.FundingResponse
// @Failure 500 {object} map[string]string "Failed to list fundings"
// @Security BearerAuth
// @Router /situations/{situation_id}/fundings [get]
func (h *fundingHandler) listFundingsBySituation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	situationID := c.Param("situation_id")

	fundings, err := h.allocationSvc.GetFundingsBySituation(c.Request.Context(), situationID)
	if err != nil {
		logger.Error("Failed to list fundings by situation", slog.String("situation_id", situationID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fundings"})
		return
	}
	c.JSON(http.StatusOK, dto.ToFundingResponses(fundings))
}
