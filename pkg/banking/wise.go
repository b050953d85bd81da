package banking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const wiseBase = "https://api.transferwise.com"

// WiseClient talks to the Wise multi-currency account API. Wise holds the
// IDR balance classes are paid from.
type WiseClient struct {
	apiKey    string
	profileID string
	http      *http.Client
}

func NewWiseClient(apiKey, profileID string) *WiseClient {
	return &WiseClient{
		apiKey:    apiKey,
		profileID: profileID,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *WiseClient) Name() string { return "wise" }

func (w *WiseClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wiseBase+path, nil)
	if err != nil {
		return fmt.Errorf("build wise request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.apiKey)

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("wise %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wise %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wise %s: %w", path, err)
	}
	return nil
}

func (w *WiseClient) Accounts(ctx context.Context) ([]Account, error) {
	var balances []struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Amount struct {
			Value    float64 `json:"value"`
			Currency string  `json:"currency"`
		} `json:"amount"`
	}
	path := fmt.Sprintf("/v4/profiles/%s/balances?types=STANDARD", w.profileID)
	if err := w.get(ctx, path, &balances); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(balances))
	for _, b := range balances {
		name := b.Name
		if name == "" {
			name = "Wise " + b.Amount.Currency
		}
		accounts = append(accounts, Account{
			ExternalID:   strconv.FormatInt(b.ID, 10),
			Name:         name,
			Currency:     b.Amount.Currency,
			BalanceMinor: minorUnits(b.Amount.Value, b.Amount.Currency),
		})
	}
	return accounts, nil
}

func (w *WiseClient) Transactions(ctx context.Context, accountExternalID string, since time.Time) ([]Transaction, error) {
	q := url.Values{}
	q.Set("intervalStart", since.UTC().Format(time.RFC3339))
	q.Set("intervalEnd", time.Now().UTC().Format(time.RFC3339))
	q.Set("type", "COMPACT")

	var body struct {
		Transactions []struct {
			ReferenceNumber string    `json:"referenceNumber"`
			Date            time.Time `json:"date"`
			Amount          struct {
				Value    float64 `json:"value"`
				Currency string  `json:"currency"`
			} `json:"amount"`
			Details struct {
				Description      string `json:"description"`
				PaymentReference string `json:"paymentReference"`
			} `json:"details"`
		} `json:"transactions"`
	}
	path := fmt.Sprintf("/v1/profiles/%s/balance-statements/%s/statement.json?%s",
		w.profileID, accountExternalID, q.Encode())
	if err := w.get(ctx, path, &body); err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(body.Transactions))
	for _, t := range body.Transactions {
		txs = append(txs, Transaction{
			ExternalID:   t.ReferenceNumber,
			PostedAt:     t.Date,
			AmountMinor:  minorUnits(t.Amount.Value, t.Amount.Currency),
			Counterparty: t.Details.PaymentReference,
			Description:  t.Details.Description,
		})
	}
	return txs, nil
}
