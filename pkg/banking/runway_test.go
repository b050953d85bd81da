package banking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"yep.or.id/classadmin/models"
)

func TestComputeRunway(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	idrAcct := models.BankAccount{ID: uuid.New(), Currency: "IDR", BalanceMinor: 90_000_000}
	usdAcct := models.BankAccount{ID: uuid.New(), Currency: "USD", BalanceMinor: 100_000} // $1,000.00

	outflow := func(acct uuid.UUID, amount int64, monthsAgo int) models.BankTransaction {
		return models.BankTransaction{
			BankAccountID: acct,
			AmountMinor:   -amount,
			PostedAt:      now.AddDate(0, -monthsAgo, 7),
		}
	}

	t.Run("idr only", func(t *testing.T) {
		res := ComputeRunway(RunwayInput{
			Accounts: []models.BankAccount{idrAcct},
			Transactions: []models.BankTransaction{
				outflow(idrAcct.ID, 10_000_000, 1),
				outflow(idrAcct.ID, 10_000_000, 2),
				outflow(idrAcct.ID, 10_000_000, 3),
			},
			Now: now,
		})
		assert.Equal(t, int64(90_000_000), res.TotalBalanceIDR)
		assert.Equal(t, int64(10_000_000), res.MonthlyBurnIDR)
		assert.InDelta(t, 9.0, res.RunwayMonths, 0.01)
		assert.False(t, res.Unbounded)
	})

	t.Run("usd converted", func(t *testing.T) {
		// 16,000 IDR per USD => 160 IDR per cent.
		res := ComputeRunway(RunwayInput{
			Accounts:     []models.BankAccount{usdAcct},
			Transactions: []models.BankTransaction{outflow(usdAcct.ID, 10_000, 1)}, // $100
			USDToIDR:     160,
			Now:          now,
		})
		assert.Equal(t, int64(16_000_000), res.TotalBalanceIDR)
		// $100 over a 3-month window.
		assert.Equal(t, int64(533_333), res.MonthlyBurnIDR)
	})

	t.Run("no outflows means unbounded", func(t *testing.T) {
		res := ComputeRunway(RunwayInput{
			Accounts: []models.BankAccount{idrAcct},
			Now:      now,
		})
		assert.True(t, res.Unbounded)
		assert.Zero(t, res.RunwayMonths)
	})

	t.Run("old outflows outside window ignored", func(t *testing.T) {
		res := ComputeRunway(RunwayInput{
			Accounts:     []models.BankAccount{idrAcct},
			Transactions: []models.BankTransaction{outflow(idrAcct.ID, 50_000_000, 6)},
			Now:          now,
		})
		assert.True(t, res.Unbounded)
	})

	t.Run("inflows do not count as burn", func(t *testing.T) {
		res := ComputeRunway(RunwayInput{
			Accounts: []models.BankAccount{idrAcct},
			Transactions: []models.BankTransaction{
				{BankAccountID: idrAcct.ID, AmountMinor: 5_000_000, PostedAt: now.AddDate(0, -1, 0)},
			},
			Now: now,
		})
		assert.True(t, res.Unbounded)
	})
}
