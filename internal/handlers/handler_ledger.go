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

// ledgerHandler handles HTTP requests for transactions, disbursements and
// reports.
type ledgerHandler struct {
	ledgerSvc portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerSvc portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerSvc: ledgerSvc}
}

// registerLedgerRoutes registers transaction and report routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerSvc portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerSvc)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.getTransactionsByReference)
		transactions.GET("/:id", h.getTransaction)
	}

	rg.POST("/disbursements", h.recordDisbursement)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

// getTransaction godoc
// @Summary Get a ledger transaction
// @Description Retrieves a transaction with its entries
// @Tags ledger
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.ledgerSvc.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(*txn))
}

// getTransactionsByReference godoc
// @Summary List transactions for a business record
// @Description Retrieves every transaction posted against a reference, e.g. a donation or booking
// @Tags ledger
// @Produce  json
// @Param   referenceType query string true "Reference type (DONATION, SITUATION_FUNDING, BOOKING)"
// @Param   referenceID query string true "Reference ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Missing reference parameters"
// @Failure 500 {object} map[string]string "Failed to retrieve transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) getTransactionsByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	refType := c.Query("referenceType")
	refID := c.Query("referenceID")
	if refType == "" || refID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "referenceType and referenceID are required"})
		return
	}

	txns, err := h.ledgerSvc.GetTransactionsByReference(c.Request.Context(), refType, refID)
	if err != nil {
		logger.Error("Failed to get transactions by reference",
			slog.String("reference_type", refType), slog.String("reference_id", refID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// recordDisbursement godoc
// @Summary Record a housing disbursement
// @Description Posts a payment out of allocated funds for a booking
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   disbursement body dto.RecordDisbursementRequest true "Disbursement details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record disbursement"
// @Security BearerAuth
// @Router /disbursements [post]
func (h *ledgerHandler) recordDisbursement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordDisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordDisbursement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerSvc.RecordDisbursement(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConfiguration) {
			logger.Error("System accounts missing for disbursement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger is not provisioned"})
		} else {
			logger.Error("Failed to record disbursement", slog.String("booking_id", req.BookingID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record disbursement"})
		}
		return
	}

	logger.Info("Disbursement recorded", slog.String("transaction_code", txn.TransactionCode))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*txn))
}

// getTrialBalance godoc
// @Summary Trial balance report
// @Description Sums all debits and credits across the ledger; the totals must match
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.ledgerSvc.GetTrialBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}
	c.JSON(http.StatusOK, report)
}
