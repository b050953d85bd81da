package banking

import (
	"math"
	"time"

	"yep.or.id/classadmin/models"
)

// Runway estimates how many months of spending the current balances cover.
// Burn is the average monthly outflow over the trailing window; balances in
// non-IDR currencies are converted with the configured rate so everything is
// summed in rupiah.

// RunwayInput decouples the arithmetic from the database for testing.
type RunwayInput struct {
	Accounts     []models.BankAccount
	Transactions []models.BankTransaction
	// USDToIDR converts USD cents to whole rupiah (rate per dollar / 100).
	USDToIDR float64
	Now      time.Time
	// WindowMonths is the trailing burn window; 3 when zero.
	WindowMonths int
}

// RunwayResult is what the dashboard renders.
type RunwayResult struct {
	TotalBalanceIDR int64   `json:"totalBalanceIdr"`
	MonthlyBurnIDR  int64   `json:"monthlyBurnIdr"`
	RunwayMonths    float64 `json:"runwayMonths"`
	// Unbounded is set when there was no outflow in the window, so no finite
	// runway can be computed.
	Unbounded bool `json:"unbounded"`
}

// ComputeRunway sums balances in IDR and divides by trailing average burn.
func ComputeRunway(in RunwayInput) RunwayResult {
	window := in.WindowMonths
	if window <= 0 {
		window = 3
	}
	cutoff := in.Now.AddDate(0, -window, 0)

	currencies := make(map[string]string, len(in.Accounts)) // account id -> currency
	var total int64
	for _, a := range in.Accounts {
		currencies[a.ID.String()] = a.Currency
		total += toIDR(a.BalanceMinor, a.Currency, in.USDToIDR)
	}

	var outflow int64
	for _, tx := range in.Transactions {
		if tx.AmountMinor >= 0 || tx.PostedAt.Before(cutoff) {
			continue
		}
		cur := currencies[tx.BankAccountID.String()]
		outflow += -toIDR(tx.AmountMinor, cur, in.USDToIDR)
	}

	burn := outflow / int64(window)
	res := RunwayResult{TotalBalanceIDR: total, MonthlyBurnIDR: burn}
	if burn <= 0 {
		res.Unbounded = true
		return res
	}
	res.RunwayMonths = math.Round(float64(total)/float64(burn)*10) / 10
	return res
}

func toIDR(minor int64, currency string, usdToIDR float64) int64 {
	switch currency {
	case "IDR", "":
		return minor
	case "USD":
		return int64(float64(minor) * usdToIDR)
	default:
		// Other currencies are not expected; treat like USD cents as a
		// conservative placeholder.
		return int64(float64(minor) * usdToIDR)
	}
}
