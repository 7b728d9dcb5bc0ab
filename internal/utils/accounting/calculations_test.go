package accounting_test

import (
	"testing"

	"github.com/SafeStays/safe_stays_app/internal/core/domain"
	"github.com/SafeStays/safe_stays_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFees_StandardAmounts(t *testing.T) {
	tests := []struct {
		name           string
		gross          string
		platformFee    string
		facilitatorFee string
		net            string
	}{
		{"hundred dollars", "100.00", "7.00", "3.00", "90.00"},
		{"thousand dollars", "1000.00", "70.00", "30.00", "900.00"},
		{"small donation", "10.00", "0.70", "0.30", "9.00"},
		{"rounding half up", "33.33", "2.33", "1.00", "30.00"},
		{"repeating cents", "0.99", "0.07", "0.03", "0.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross := decimal.RequireFromString(tt.gross)
			fees := accounting.CalculateFees(gross)

			assert.True(t, fees.PlatformFee.Equal(decimal.RequireFromString(tt.platformFee)),
				"platform fee: got %s", fees.PlatformFee)
			assert.True(t, fees.FacilitatorFee.Equal(decimal.RequireFromString(tt.facilitatorFee)),
				"facilitator fee: got %s", fees.FacilitatorFee)
			assert.True(t, fees.NetAmount.Equal(decimal.RequireFromString(tt.net)),
				"net amount: got %s", fees.NetAmount)
		})
	}
}

// The breakdown must reassemble into the gross exactly, whatever the input.
func TestCalculateFees_IdentityHolds(t *testing.T) {
	amounts := []string{"100.00", "33.33", "0.01", "0.99", "123456.78", "7.77", "19.95"}
	for _, a := range amounts {
		gross := decimal.RequireFromString(a)
		fees := accounting.CalculateFees(gross)

		total := fees.PlatformFee.Add(fees.FacilitatorFee).Add(fees.ProcessingFee).Add(fees.NetAmount)
		require.True(t, total.Equal(gross), "gross %s reassembled to %s", gross, total)
		assert.True(t, fees.TotalFees.Equal(fees.PlatformFee.Add(fees.FacilitatorFee)))
	}
}

func TestNightsFunded(t *testing.T) {
	tests := []struct {
		name string
		net  string
		rate string
		want int
	}{
		{"exact multiple", "90.00", "45.00", 2},
		{"floors partial nights", "90.00", "50.00", 1},
		{"less than one night", "40.00", "50.00", 0},
		{"zero rate", "90.00", "0", 0},
		{"negative rate", "90.00", "-10", 0},
		{"non-terminating division", "100.00", "3.00", 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.NightsFunded(decimal.RequireFromString(tt.net), decimal.RequireFromString(tt.rate))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		entryType   domain.EntryType
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{"debit to asset is positive", domain.Debit, domain.Asset, amount},
		{"credit to asset is negative", domain.Credit, domain.Asset, amount.Neg()},
		{"debit to expense is positive", domain.Debit, domain.Expense, amount},
		{"credit to liability is positive", domain.Credit, domain.Liability, amount},
		{"debit to liability is negative", domain.Debit, domain.Liability, amount.Neg()},
		{"credit to revenue is positive", domain.Credit, domain.Revenue, amount},
		{"debit to equity is negative", domain.Debit, domain.Equity, amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := domain.LedgerEntry{AccountID: "acc_1", EntryType: tt.entryType, Amount: amount}
			got, err := accounting.SignedAmount(entry, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestSignedAmount_UnknownAccountType(t *testing.T) {
	entry := domain.LedgerEntry{AccountID: "acc_1", EntryType: domain.Debit, Amount: decimal.NewFromInt(1)}
	_, err := accounting.SignedAmount(entry, domain.AccountType("BOGUS"))
	assert.Error(t, err)
}
