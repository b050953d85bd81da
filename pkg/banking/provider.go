// Package banking syncs accounts and transactions from the bank aggregators
// (Mercury, Wise) into the local ledger tables and derives the runway
// projection shown on the admin dashboard.
package banking

import (
	"context"
	"time"
)

// Account is a provider-neutral account snapshot. Balances are in the
// currency's minor units.
type Account struct {
	ExternalID   string
	Name         string
	Currency     string
	BalanceMinor int64
}

// Transaction is one ledger entry; AmountMinor is negative for outflows.
type Transaction struct {
	ExternalID   string
	PostedAt     time.Time
	AmountMinor  int64
	Counterparty string
	Description  string
}

// Provider is one bank aggregator. Calls are blocking with no retry; a
// failed sync is reported and retried manually or on the next cron run.
type Provider interface {
	Name() string
	Accounts(ctx context.Context) ([]Account, error)
	Transactions(ctx context.Context, accountExternalID string, since time.Time) ([]Transaction, error)
}

// minorUnits converts a decimal amount to minor units for a currency.
// IDR has no minor unit in practice; everything else here uses cents.
func minorUnits(amount float64, currency string) int64 {
	if currency == "IDR" {
		return int64(amount + sign(amount)*0.5)
	}
	cents := amount * 100
	return int64(cents + sign(cents)*0.5)
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
