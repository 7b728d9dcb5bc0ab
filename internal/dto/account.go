package dto

import (
	"time"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a ledger account.
type CreateAccountRequest struct {
	AccountCode     string             `json:"accountCode" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	CharityID       string             `json:"charityID,omitempty"`
}

// AccountResponse is the API representation of a ledger account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	AccountCode     string             `json:"accountCode"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	CharityID       string             `json:"charityID,omitempty"`
	IsSystemAccount bool               `json:"isSystemAccount"`
	IsActive        bool               `json:"isActive"`
	Balance         decimal.Decimal    `json:"balance"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		AccountCode:     a.AccountCode,
		Name:            a.Name,
		AccountType:     a.AccountType,
		ParentAccountID: a.ParentAccountID,
		CharityID:       a.CharityID,
		IsSystemAccount: a.IsSystemAccount,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
		CreatedAt:       a.CreatedAt,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = ToAccountResponse(a)
	}
	return out
}

// AccountBalanceResponse reports an account balance recomputed from the
// entry log.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      time.Time       `json:"asOf"`
}
