package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// charityHandler serves charity-scoped read views: held funds, donation
// history and published rates.
type charityHandler struct {
	ledgerSvc   portssvc.LedgerSvcFacade
	donationSvc portssvc.DonationSvcFacade
	rateSvc     portssvc.RateSvcFacade
}

func newCharityHandler(
	ledgerSvc portssvc.LedgerSvcFacade,
	donationSvc portssvc.DonationSvcFacade,
	rateSvc portssvc.RateSvcFacade,
) *charityHandler {
	return &charityHandler{ledgerSvc: ledgerSvc, donationSvc: donationSvc, rateSvc: rateSvc}
}

// registerCharityRoutes registers charity-scoped query routes.
func registerCharityRoutes(
	rg *gin.RouterGroup,
	ledgerSvc portssvc.LedgerSvcFacade,
	donationSvc portssvc.DonationSvcFacade,
	rateSvc portssvc.RateSvcFacade,
) {
	h := newCharityHandler(ledgerSvc, donationSvc, rateSvc)

	charities := rg.Group("/charities/:charity_id")
	{
		charities.GET("/funds", h.getAvailableFunds)
		charities.GET("/donations", h.listDonations)
		charities.GET("/rates", h.listRates)
		charities.GET("/rates/average", h.getAverageRate)
	}
}

// getAvailableFunds godoc
// @Summary Get a charity's available funds
// @Description Returns the balance of the charity's funds-held account, zero if no donations were posted yet
// @Tags charities
// @Produce  json
// @Param   charity_id path string true "Charity ID"
// @Success 200 {object} dto.CharityFundsResponse
// @Failure 500 {object} map[string]string "Failed to compute funds"
// @Security BearerAuth
// @Router /charities/{charity_id}/funds [get]
func (h *charityHandler) getAvailableFunds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	charityID := c.Param("charity_id")

	funds, err := h.ledgerSvc.GetCharityAvailableFunds(c.Request.Context(), charityID)
	if err != nil {
		logger.Error("Failed to compute charity funds", slog.String("charity_id", charityID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute funds"})
		return
	}
	c.JSON(http.StatusOK, dto.CharityFundsResponse{
		CharityID:      charityID,
		AvailableFunds: funds,
		AsOf:           time.Now(),
	})
}

// listDonations godoc
// @Summary List a charity's donations
// @Tags charities
// @Produce  json
// @Param   charity_id path string true "Charity ID"
// @Success 200 {array} dto.DonationResponse
// @Failure 500 {object} map[string]string "Failed to list donations"
// @Security BearerAuth
// @Router /charities/{charity_id}/donations [get]
func (h *charityHandler) listDonations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	charityID := c.Param("charity_id")

	donations, err := h.donationSvc.ListDonationsByCharity(c.Request.Context(), charityID)
	if err != nil {
		logger.Error("Failed to list donations by charity", slog.String("charity_id", charityID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list donations"})
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponses(donations))
}

// listRates godoc
// @Summary List a charity's nightly rates
// @Tags charities
// @Produce  json
// @Param   charity_id path string true "Charity ID"
// @Success 200 {array} dto.RateResponse
// @Failure 500 {object} map[string]string "Failed to list rates"
// @Security BearerAuth
// @Router /charities/{charity_id}/rates [get]
func (h *charityHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	charityID := c.Param("charity_id")

	rates, err := h.rateSvc.ListRatesByCharity(c.Request.Context(), charityID)
	if err != nil {
		logger.Error("Failed to list rates by charity", slog.String("charity_id", charityID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rates"})
		return
	}
	c.JSON(http.StatusOK, dto.ToRateResponses(rates))
}

// getAverageRate godoc
// @Summary Get a charity's average active nightly rate
// @Description Averages the rates active today; zero when the charity has no active rate
// @Tags charities
// @Produce  json
// @Param   charity_id path string true "Charity ID"
// @Success 200 {object} dto.AverageRateResponse
// @Failure 500 {object} map[string]string "Failed to compute average rate"
// @Security BearerAuth
// @Router /charities/{charity_id}/rates/average [get]
func (h *charityHandler) getAverageRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	charityID := c.Param("charity_id")

	now := time.Now()
	avg, err := h.rateSvc.AverageActiveRate(c.Request.Context(), charityID, now)
	if err != nil {
		logger.Error("Failed to compute average rate", slog.String("charity_id", charityID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute average rate"})
		return
	}
	c.JSON(http.StatusOK, dto.AverageRateResponse{
		CharityID:   charityID,
		AverageRate: avg,
		AsOf:        now,
	})
}
