package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SafeStays/safe_stays_app/internal/apperrors"
	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	portsrepo "github.com/SafeStays/safe_stays_app/internal/core/ports/repositories"
	"github.com/SafeStays/safe_stays_app/internal/dto"
	"github.com/SafeStays/safe_stays_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService implements the double-entry engine on top of the account and
// ledger repositories.
type LedgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

type systemAccountDef struct {
	code        string
	name        string
	accountType domain.AccountType
}

var systemAccountDefs = []systemAccountDef{
	{domain.CashCode, "Cash / Bank", domain.Asset},
	{domain.AccountsReceivableCode, "Accounts Receivable", domain.Asset},
	{domain.FundsHeldCode, "Funds Held for Charities", domain.Liability},
	{domain.AllocatedFundsCode, "Funds Allocated to Situations", domain.Liability},
	{domain.PlatformFeeRevenueCode, "Platform Fee Revenue (7%)", domain.Revenue},
	{domain.FacilitatorFeeRevenueCode, "Facilitator Fee Revenue (3%)", domain.Revenue},
	{domain.HousingDisbursementsCode, "Housing Disbursements", domain.Expense},
	{domain.RefundsExpenseCode, "Refunds Issued", domain.Expense},
}

// EnsureSystemAccounts creates any missing platform accounts. Safe to call on
// every startup.
func (s *LedgerService) EnsureSystemAccounts(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()
	for _, def := range systemAccountDefs {
		candidate := domain.Account{
			AccountID:       uuid.NewString(),
			AccountCode:     def.code,
			Name:            def.name,
			AccountType:     def.accountType,
			IsSystemAccount: true,
			IsActive:        true,
			Balance:         decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if _, err := s.accountRepo.GetOrCreateAccountByCode(ctx, candidate); err != nil {
			logger.Error("failed to ensure system account", "accountCode", def.code, "error", err)
			return fmt.Errorf("ensuring system account %s: %w", def.code, err)
		}
	}
	logger.Info("system accounts verified", "count", len(systemAccountDefs))
	return nil
}

// CreateAccount creates a custom (non-system) ledger account.
func (s *LedgerService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		AccountCode:     req.AccountCode,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		CharityID:       req.CharityID,
		IsSystemAccount: false,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("failed to create account", "accountCode", req.AccountCode, "error", err)
		return nil, err
	}
	logger.Info("account created", "accountID", account.AccountID, "accountCode", account.AccountCode)
	return &account, nil
}

// GetAccountByID fetches a single account.
func (s *LedgerService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByCode fetches a single account by its code.
func (s *LedgerService) GetAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, accountCode)
}

// ListAccounts returns all active accounts.
func (s *LedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListActiveAccounts(ctx)
}

// DeactivateAccount soft-deletes an account. System accounts cannot be
// deactivated.
func (s *LedgerService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.IsSystemAccount {
		return fmt.Errorf("%w: system accounts cannot be deactivated", apperrors.ErrValidation)
	}
	return s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now())
}

// GetOrCreateCharityFundAccount returns the charity's funds-held sub-account,
// creating it under the funds-held parent on first use.
func (s *LedgerService) GetOrCreateCharityFundAccount(ctx context.Context, userID string, charityID string) (*domain.Account, error) {
	if charityID == "" {
		return nil, fmt.Errorf("%w: charity id is required", apperrors.ErrValidation)
	}
	parent, err := s.accountRepo.FindAccountByCode(ctx, domain.FundsHeldCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: system account %s is not provisioned", apperrors.ErrConfiguration, domain.FundsHeldCode)
		}
		return nil, err
	}

	now := time.Now()
	candidate := domain.Account{
		AccountID:       uuid.NewString(),
		AccountCode:     fmt.Sprintf("%s-%s", domain.FundsHeldCode, charityID),
		Name:            "Charity Fund: " + charityID,
		AccountType:     domain.Liability,
		ParentAccountID: parent.AccountID,
		CharityID:       charityID,
		IsSystemAccount: false,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	return s.accountRepo.GetOrCreateAccountByCode(ctx, candidate)
}

// getSystemAccount resolves a required platform account, mapping absence to a
// configuration error rather than a lookup miss.
func (s *LedgerService) getSystemAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: system account %s is not provisioned", apperrors.ErrConfiguration, code)
		}
		return nil, err
	}
	return account, nil
}

// RecordDonationReceived posts a verified donation: cash in, net to the
// charity's fund, fees to revenue.
func (s *LedgerService) RecordDonationReceived(ctx context.Context, userID string, donation domain.Donation) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if donation.GrossAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: donation gross amount must be positive", apperrors.ErrValidation)
	}

	cash, err := s.getSystemAccount(ctx, domain.CashCode)
	if err != nil {
		return nil, err
	}
	charityFund, err := s.GetOrCreateCharityFundAccount(ctx, userID, donation.CharityID)
	if err != nil {
		return nil, err
	}
	platformFeeAcc, err := s.getSystemAccount(ctx, domain.PlatformFeeRevenueCode)
	if err != nil {
		return nil, err
	}
	facilitatorFeeAcc, err := s.getSystemAccount(ctx, domain.FacilitatorFeeRevenueCode)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(userID, domain.DonationReceived, donation.CharityID,
		"Donation received from donor "+donation.DonorID, domain.RefDonation, donation.DonationID, donation.GrossAmount)
	txn.AddEntry(domain.NewDebit(cash.AccountID, donation.GrossAmount, "Donation "+donation.DonationID))
	txn.AddEntry(domain.NewCredit(charityFund.AccountID, donation.NetAmount, "Net donation for housing"))
	if donation.PlatformFee.GreaterThan(decimal.Zero) {
		txn.AddEntry(domain.NewCredit(platformFeeAcc.AccountID, donation.PlatformFee, "Platform fee (7%)"))
	}
	if donation.FacilitatorFee.GreaterThan(decimal.Zero) {
		txn.AddEntry(domain.NewCredit(facilitatorFeeAcc.AccountID, donation.FacilitatorFee, "Facilitator fee (3%)"))
	}

	saved, err := s.post(ctx, txn)
	if err != nil {
		return nil, err
	}
	logger.Info("donation posted to ledger",
		"donationID", donation.DonationID, "transactionCode", saved.TransactionCode, "grossAmount", donation.GrossAmount)
	return saved, nil
}

// RecordAllocation posts a fund allocation: charity fund down, allocated
// funds up.
func (s *LedgerService) RecordAllocation(ctx context.Context, userID string, funding domain.SituationFunding) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	charityFund, err := s.GetOrCreateCharityFundAccount(ctx, userID, funding.CharityID)
	if err != nil {
		return nil, err
	}
	allocated, err := s.getSystemAccount(ctx, domain.AllocatedFundsCode)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(userID, domain.FundAllocated, funding.CharityID,
		"Funds allocated to situation "+funding.SituationID, domain.RefSituationFunding, funding.FundingID, funding.AmountAllocated)
	txn.AddEntry(domain.NewDebit(charityFund.AccountID, funding.AmountAllocated, "Allocated to situation "+funding.SituationID))
	txn.AddEntry(domain.NewCredit(allocated.AccountID, funding.AmountAllocated, "Committed for housing"))

	saved, err := s.post(ctx, txn)
	if err != nil {
		return nil, err
	}
	logger.Info("allocation posted to ledger",
		"fundingID", funding.FundingID, "transactionCode", saved.TransactionCode, "amount", funding.AmountAllocated)
	return saved, nil
}

// RecordDisbursement posts a housing payment: allocated funds released, cash
// out.
func (s *LedgerService) RecordDisbursement(ctx context.Context, userID string, req dto.RecordDisbursementRequest) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: disbursement amount must be positive", apperrors.ErrValidation)
	}
	allocated, err := s.getSystemAccount(ctx, domain.AllocatedFundsCode)
	if err != nil {
		return nil, err
	}
	cash, err := s.getSystemAccount(ctx, domain.CashCode)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Disbursement for booking " + req.BookingID
	}
	txn := s.newTransaction(userID, domain.FundDisbursed, req.CharityID,
		description, domain.RefBooking, req.BookingID, req.Amount)
	txn.AddEntry(domain.NewDebit(allocated.AccountID, req.Amount, "Released for booking "+req.BookingID))
	txn.AddEntry(domain.NewCredit(cash.AccountID, req.Amount, "Payment to "+req.LocationName))

	saved, err := s.post(ctx, txn)
	if err != nil {
		return nil, err
	}
	logger.Info("disbursement posted to ledger",
		"bookingID", req.BookingID, "transactionCode", saved.TransactionCode, "amount", req.Amount)
	return saved, nil
}

// RecordRefund reverses a donation's original posting: fund and fee accounts
// debited, cash credited for the gross amount. The original donation
// transaction, if any, is flagged as reversed.
func (s *LedgerService) RecordRefund(ctx context.Context, userID string, donation domain.Donation, reason string) (*domain.LedgerTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	cash, err := s.getSystemAccount(ctx, domain.CashCode)
	if err != nil {
		return nil, err
	}
	charityFund, err := s.GetOrCreateCharityFundAccount(ctx, userID, donation.CharityID)
	if err != nil {
		return nil, err
	}
	platformFeeAcc, err := s.getSystemAccount(ctx, domain.PlatformFeeRevenueCode)
	if err != nil {
		return nil, err
	}
	facilitatorFeeAcc, err := s.getSystemAccount(ctx, domain.FacilitatorFeeRevenueCode)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(userID, domain.DonationRefund, donation.CharityID,
		fmt.Sprintf("Refund for donation %s: %s", donation.DonationID, reason),
		domain.RefDonation, donation.DonationID, donation.GrossAmount)
	txn.Notes = reason
	txn.ReversalOfID = donation.LedgerTransactionID

	txn.AddEntry(domain.NewDebit(charityFund.AccountID, donation.NetAmount, "Refund - net amount"))
	if donation.PlatformFee.GreaterThan(decimal.Zero) {
		txn.AddEntry(domain.NewDebit(platformFeeAcc.AccountID, donation.PlatformFee, "Refund - platform fee"))
	}
	if donation.FacilitatorFee.GreaterThan(decimal.Zero) {
		txn.AddEntry(domain.NewDebit(facilitatorFeeAcc.AccountID, donation.FacilitatorFee, "Refund - facilitator fee"))
	}
	txn.AddEntry(domain.NewCredit(cash.AccountID, donation.GrossAmount, "Refund payment"))

	saved, err := s.post(ctx, txn)
	if err != nil {
		return nil, err
	}
	if donation.LedgerTransactionID != "" {
		if err := s.ledgerRepo.MarkTransactionReversed(ctx, donation.LedgerTransactionID, saved.TransactionID, userID, time.Now()); err != nil {
			logger.Error("failed to flag original transaction as reversed",
				"transactionID", donation.LedgerTransactionID, "error", err)
			return nil, err
		}
	}
	logger.Info("refund posted to ledger",
		"donationID", donation.DonationID, "transactionCode", saved.TransactionCode, "grossAmount", donation.GrossAmount)
	return saved, nil
}

// newTransaction builds the transaction shell common to all postings.
func (s *LedgerService) newTransaction(userID string, txnType domain.TransactionType, charityID, description, refType, refID string, total decimal.Decimal) domain.LedgerTransaction {
	now := time.Now()
	return domain.LedgerTransaction{
		TransactionID:   uuid.NewString(),
		TransactionType: txnType,
		TransactionDate: now,
		Description:     description,
		ReferenceType:   refType,
		ReferenceID:     refID,
		CharityID:       charityID,
		TotalAmount:     total,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

// post validates the double-entry invariant and persists the transaction. An
// unbalanced transaction is a programming error and is never persisted.
func (s *LedgerService) post(ctx context.Context, txn domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	if len(txn.Entries) < 2 {
		return nil, fmt.Errorf("%w: a transaction requires at least two entries", apperrors.ErrValidation)
	}
	for _, entry := range txn.Entries {
		if entry.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: entry amounts must be positive", apperrors.ErrValidation)
		}
	}
	if !txn.IsBalanced() {
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalanced, txn.TotalDebits(), txn.TotalCredits())
	}
	return s.ledgerRepo.SaveTransaction(ctx, txn)
}

// GetTransactionByID fetches a transaction with its entries.
func (s *LedgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	return s.ledgerRepo.FindTransactionByID(ctx, transactionID)
}

// GetTransactionsByReference fetches all transactions recorded against a
// business object.
func (s *LedgerService) GetTransactionsByReference(ctx context.Context, referenceType, referenceID string) ([]domain.LedgerTransaction, error) {
	return s.ledgerRepo.FindTransactionsByReference(ctx, referenceType, referenceID)
}

// GetAccountHistory returns an account's entries between two dates, inclusive
// of the whole end day.
func (s *LedgerService) GetAccountHistory(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerEntry, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return s.ledgerRepo.FindEntriesByAccountAndDateRange(ctx, accountID, start, end)
}

// GetAccountBalance recomputes the balance from the entry log using the
// account type's sign convention.
func (s *LedgerService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debits, err := s.ledgerRepo.SumEntriesByAccount(ctx, accountID, domain.Debit)
	if err != nil {
		return decimal.Zero, err
	}
	credits, err := s.ledgerRepo.SumEntriesByAccount(ctx, accountID, domain.Credit)
	if err != nil {
		return decimal.Zero, err
	}
	if account.AccountType.IncreasesWithDebit() {
		return debits.Sub(credits), nil
	}
	return credits.Sub(debits), nil
}

// GetCharityAvailableFunds returns the charity's funds-held balance. A
// charity with no fund account yet has zero available funds.
func (s *LedgerService) GetCharityAvailableFunds(ctx context.Context, charityID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, fmt.Sprintf("%s-%s", domain.FundsHeldCode, charityID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return s.GetAccountBalance(ctx, account.AccountID)
}

// GetTrialBalance sums every debit and every credit in the ledger. The two
// totals must agree on a healthy ledger.
func (s *LedgerService) GetTrialBalance(ctx context.Context) (dto.TrialBalanceResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	debits, err := s.ledgerRepo.SumAllEntries(ctx, domain.Debit)
	if err != nil {
		return dto.TrialBalanceResponse{}, err
	}
	credits, err := s.ledgerRepo.SumAllEntries(ctx, domain.Credit)
	if err != nil {
		return dto.TrialBalanceResponse{}, err
	}
	balanced := debits.Equal(credits)
	if !balanced {
		logger.Error("trial balance mismatch", "totalDebits", debits, "totalCredits", credits)
	}
	return dto.TrialBalanceResponse{
		TotalDebits:  debits,
		TotalCredits: credits,
		Balanced:     balanced,
		AsOf:         time.Now(),
	}, nil
}
