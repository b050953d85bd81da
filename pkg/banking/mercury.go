package banking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const mercuryBase = "https://api.mercury.com/api/v1"

// MercuryClient talks to the Mercury REST API with a read-only token.
type MercuryClient struct {
	apiKey string
	http   *http.Client
}

func NewMercuryClient(apiKey string) *MercuryClient {
	return &MercuryClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *MercuryClient) Name() string { return "mercury" }

func (m *MercuryClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mercuryBase+path, nil)
	if err != nil {
		return fmt.Errorf("build mercury request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("mercury %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mercury %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mercury %s: %w", path, err)
	}
	return nil
}

func (m *MercuryClient) Accounts(ctx context.Context) ([]Account, error) {
	var body struct {
		Accounts []struct {
			ID             string  `json:"id"`
			Name           string  `json:"name"`
			CurrentBalance float64 `json:"currentBalance"`
		} `json:"accounts"`
	}
	if err := m.get(ctx, "/accounts", &body); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(body.Accounts))
	for _, a := range body.Accounts {
		accounts = append(accounts, Account{
			ExternalID:   a.ID,
			Name:         a.Name,
			Currency:     "USD", // Mercury accounts are USD only
			BalanceMinor: minorUnits(a.CurrentBalance, "USD"),
		})
	}
	return accounts, nil
}

func (m *MercuryClient) Transactions(ctx context.Context, accountExternalID string, since time.Time) ([]Transaction, error) {
	q := url.Values{}
	q.Set("start", since.Format("2006-01-02"))

	var body struct {
		Transactions []struct {
			ID               string    `json:"id"`
			Amount           float64   `json:"amount"`
			PostedAt         time.Time `json:"postedAt"`
			CounterpartyName string    `json:"counterpartyName"`
			BankDescription  string    `json:"bankDescription"`
		} `json:"transactions"`
	}
	path := fmt.Sprintf("/account/%s/transactions?%s", accountExternalID, q.Encode())
	if err := m.get(ctx, path, &body); err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(body.Transactions))
	for _, t := range body.Transactions {
		txs = append(txs, Transaction{
			ExternalID:   t.ID,
			PostedAt:     t.PostedAt,
			AmountMinor:  minorUnits(t.Amount, "USD"),
			Counterparty: t.CounterpartyName,
			Description:  t.BankDescription,
		})
	}
	return txs, nil
}
