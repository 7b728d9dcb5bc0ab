package accounting

import (
	"fmt"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Fee rates applied to every donation (10% total).
var (
	PlatformFeeRate    = decimal.NewFromFloat(0.07) // 7%
	FacilitatorFeeRate = decimal.NewFromFloat(0.03) // 3%
)

// FeeStructureVersion is stamped on donations so historical records survive
// future rate changes.
const FeeStructureVersion = "v1.0"

// FeeBreakdown splits a gross donation into fees and net amount.
// Invariant: PlatformFee + FacilitatorFee + ProcessingFee + NetAmount ==
// GrossAmount, exact after rounding (net is derived by subtraction).
type FeeBreakdown struct {
	GrossAmount    decimal.Decimal
	PlatformFee    decimal.Decimal
	FacilitatorFee decimal.Decimal
	ProcessingFee  decimal.Decimal
	TotalFees      decimal.Decimal
	NetAmount      decimal.Decimal
}

// CalculateFees computes the fee breakdown for a gross amount. Pure and
// deterministic: fees are rounded half-up to 2 decimal places, the net is the
// remainder so the identity with the gross always holds.
func CalculateFees(grossAmount decimal.Decimal) FeeBreakdown {
	platformFee := grossAmount.Mul(PlatformFeeRate).Round(2)
	facilitatorFee := grossAmount.Mul(FacilitatorFeeRate).Round(2)
	totalFees := platformFee.Add(facilitatorFee)

	return FeeBreakdown{
		GrossAmount:    grossAmount,
		PlatformFee:    platformFee,
		FacilitatorFee: facilitatorFee,
		ProcessingFee:  decimal.Zero, // reserved
		TotalFees:      totalFees,
		NetAmount:      grossAmount.Sub(totalFees),
	}
}

// NightsFunded converts a net amount into a whole number of fundable nights
// at the given average nightly rate. Returns 0 when the rate is zero or
// negative; callers decide whether that warrants a warning.
func NightsFunded(netAmount, averageRate decimal.Decimal) int {
	if averageRate.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return int(netAmount.DivRound(averageRate, 16).Floor().IntPart())
}

// SignedAmount applies the accounting sign convention to an entry amount.
// DEBIT to ASSET/EXPENSE -> positive, CREDIT to ASSET/EXPENSE -> negative,
// and the reverse for LIABILITY/EQUITY/REVENUE.
func SignedAmount(entry domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	signed := entry.Amount
	isDebit := entry.EntryType == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signed = signed.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signed = signed.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' for account ID %s", accountType, entry.AccountID)
	}
	return signed, nil
}
