package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	portssvc "github.com/SafeStays/safe_stays_app/internal/core/ports/services"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/SafeStays/safe_stays_app/internal/utils/accounting"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// donationHandler handles HTTP requests for the donation lifecycle.
type donationHandler struct {
	donationSvc portssvc.DonationSvcFacade
}

func newDonationHandler(donationSvc portssvc.DonationSvcFacade) *donationHandler {
	return &donationHandler{donationSvc: donationSvc}
}

// RegisterDonationRoutes registers donation lifecycle routes. Exported so
// handler tests can mount them on a bare router.
func RegisterDonationRoutes(rg *gin.RouterGroup, donationSvc portssvc.DonationSvcFacade) {
	h := newDonationHandler(donationSvc)

	donations := rg.Group("/donations")
	{
		donations.POST("", h.recordDonation)
		donations.GET("/:id", h.getDonation)
		donations.POST("/:id/verify", h.verifyDonation)
		donations.POST("/:id/reject", h.rejectDonation)
		donations.POST("/:id/refund", h.refundDonation)
	}

	rg.GET("/verifications/pending", h.listPendingVerification)
	rg.GET("/fees/preview", h.previewFees)
}

// previewFees godoc
// @Summary Preview the fee breakdown for a donation amount
// @Description Computes platform and facilitator fees and the resulting net amount without recording anything
// @Tags donations
// @Produce  json
// @Param   grossAmount query string true "Gross donation amount"
// @Success 200 {object} dto.FeePreviewResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Security BearerAuth
// @Router /fees/preview [get]
func (h *donationHandler) previewFees(c *gin.Context) {
	gross, err := decimal.NewFromString(c.Query("grossAmount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grossAmount"})
		return
	}

	fees, err := h.donationSvc.CalculateFees(gross)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FeePreviewResponse{
		GrossAmount:         fees.GrossAmount,
		PlatformFee:         fees.PlatformFee,
		FacilitatorFee:      fees.FacilitatorFee,
		ProcessingFee:       fees.ProcessingFee,
		TotalFees:           fees.TotalFees,
		NetAmount:           fees.NetAmount,
		FeeStructureVersion: accounting.FeeStructureVersion,
	})
}

// recordDonation godoc
// @Summary Record an incoming donation
// @Description Captures a donation with its fee breakdown and fundable nights; it stays off the ledger until verified
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   donation body dto.RecordDonationRequest true "Donation details"
// @Success 201 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record donation"
// @Security BearerAuth
// @Router /donations [post]
func (h *donationHandler) recordDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordDonation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	donation, err := h.donationSvc.RecordDonation(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record donation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record donation"})
		}
		return
	}

	logger.Info("Donation recorded", slog.String("donation_id", donation.DonationID))
	c.JSON(http.StatusCreated, dto.ToDonationResponse(*donation))
}

// getDonation godoc
// @Summary Get a donation by ID
// @Tags donations
// @Produce  json
// @Param   id path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 500 {object} map[string]string "Failed to retrieve donation"
// @Security BearerAuth
// @Router /donations/{id} [get]
func (h *donationHandler) getDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	donation, err := h.donationSvc.GetDonationByID(c.Request.Context(), donationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		} else {
			logger.Error("Failed to get donation", slog.String("donation_id", donationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve donation"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(*donation))
}

// listPendingVerification godoc
// @Summary List donations awaiting verification
// @Tags donations
// @Produce  json
// @Success 200 {array} dto.DonationResponse
// @Failure 500 {object} map[string]string "Failed to list donations"
// @Security BearerAuth
// @Router /verifications/pending [get]
func (h *donationHandler) listPendingVerification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donations, err := h.donationSvc.ListPendingVerification(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list pending verifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list donations"})
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponses(donations))
}

// verifyDonation godoc
// @Summary Verify a donation
// @Description Marks the donation verified and posts it to the ledger; a ledger failure is queued for retry and does not undo the verification
// @Tags donations
// @Produce  json
// @Param   id path string true "Donation ID"
// @Success 200 {object} dto.DonationResponse
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Verification already decided"
// @Failure 500 {object} map[string]string "Failed to verify donation"
// @Security BearerAuth
// @Router /donations/{id}/verify [post]
func (h *donationHandler) verifyDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	donation, err := h.donationSvc.VerifyDonation(c.Request.Context(), userID, donationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to verify donation", slog.String("donation_id", donationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify donation"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(*donation))
}

// rejectDonation godoc
// @Summary Reject a pending donation
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   id path string true "Donation ID"
// @Param   rejection body dto.RejectDonationRequest true "Rejection reason"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Verification already decided"
// @Failure 500 {object} map[string]string "Failed to reject donation"
// @Security BearerAuth
// @Router /donations/{id}/reject [post]
func (h *donationHandler) rejectDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	var req dto.RejectDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	donation, err := h.donationSvc.RejectDonation(c.Request.Context(), userID, donationID, req.Reason)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reject donation", slog.String("donation_id", donationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject donation"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(*donation))
}

// refundDonation godoc
// @Summary Refund a verified donation
// @Description Reverses the original ledger posting and cancels the donation; only unallocated donations qualify
// @Tags donations
// @Accept  json
// @Produce  json
// @Param   id path string true "Donation ID"
// @Param   refund body dto.RefundDonationRequest true "Refund reason"
// @Success 200 {object} dto.DonationResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Donation not found"
// @Failure 409 {object} map[string]string "Donation not refundable"
// @Failure 500 {object} map[string]string "Failed to refund donation"
// @Security BearerAuth
// @Router /donations/{id}/refund [post]
func (h *donationHandler) refundDonation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	donationID := c.Param("id")

	var req dto.RefundDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	donation, err := h.donationSvc.RefundDonation(c.Request.Context(), userID, donationID, req.Reason)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Donation not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to refund donation", slog.String("donation_id", donationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refund donation"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationResponse(*donation))
}
