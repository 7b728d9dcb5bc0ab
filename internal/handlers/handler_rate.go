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

// rateHandler handles HTTP requests for nightly housing rates.
type rateHandler struct {
	rateSvc portssvc.RateSvcFacade
}

func newRateHandler(rateSvc portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{rateSvc: rateSvc}
}

// registerRateRoutes registers nightly rate routes.
func registerRateRoutes(rg *gin.RouterGroup, rateSvc portssvc.RateSvcFacade) {
	h := newRateHandler(rateSvc)

	rg.POST("/rates", h.createRate)
}

// createRate godoc
// @Summary Publish a nightly housing rate
// @Description Records the nightly rate a charity charges at a location for a date range
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateRateRequest true "Rate details"
// @Success 201 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create rate"
// @Security BearerAuth
// @Router /rates [post]
func (h *rateHandler) createRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.rateSvc.CreateRate(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create rate", slog.String("charity_id", req.CharityID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create rate"})
		}
		return
	}

	logger.Info("Nightly rate created", slog.String("rate_id", rate.RateID))
	c.JSON(http.StatusCreated, dto.ToRateResponse(*rate))
}
