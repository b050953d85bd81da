package banking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yep.or.id/classadmin/models"
)

// Syncer pulls accounts and transactions from every configured provider into
// the local ledger tables. Re-running a sync is idempotent: accounts upsert
// on (provider, external id) and transactions on (account, external id).
type Syncer struct {
	db        *gorm.DB
	providers []Provider
	logger    *zap.Logger
}

func NewSyncer(db *gorm.DB, logger *zap.Logger, providers ...Provider) *Syncer {
	return &Syncer{db: db, providers: providers, logger: logger}
}

// SyncResult summarizes one sync run for the admin banner.
type SyncResult struct {
	Provider     string `json:"provider"`
	Accounts     int    `json:"accounts"`
	Transactions int    `json:"transactions"`
	Reconciled   int    `json:"reconciled"`
}

// SyncAll syncs every provider. The first provider error aborts the run;
// rows already written stay (each provider's data is internally consistent).
func (s *Syncer) SyncAll(ctx context.Context) ([]SyncResult, error) {
	results := make([]SyncResult, 0, len(s.providers))
	for _, p := range s.providers {
		res, err := s.syncProvider(ctx, p)
		if err != nil {
			return results, fmt.Errorf("sync %s: %w", p.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Syncer) syncProvider(ctx context.Context, p Provider) (SyncResult, error) {
	res := SyncResult{Provider: p.Name()}

	accounts, err := p.Accounts(ctx)
	if err != nil {
		return res, err
	}

	now := time.Now()
	for _, a := range accounts {
		row := models.BankAccount{
			Provider:     p.Name(),
			ExternalID:   a.ExternalID,
			Name:         a.Name,
			Currency:     a.Currency,
			BalanceMinor: a.BalanceMinor,
			LastSyncedAt: &now,
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "currency", "balance_minor", "last_synced_at"}),
		}).Create(&row).Error
		if err != nil {
			return res, fmt.Errorf("upsert account %s: %w", a.ExternalID, err)
		}
		res.Accounts++

		var stored models.BankAccount
		if err := s.db.WithContext(ctx).
			Where("provider = ? AND external_id = ?", p.Name(), a.ExternalID).
			First(&stored).Error; err != nil {
			return res, fmt.Errorf("reload account %s: %w", a.ExternalID, err)
		}

		since := now.AddDate(0, -3, 0)
		txs, err := p.Transactions(ctx, a.ExternalID, since)
		if err != nil {
			return res, err
		}
		for _, t := range txs {
			txRow := models.BankTransaction{
				BankAccountID: stored.ID,
				ExternalID:    t.ExternalID,
				PostedAt:      t.PostedAt,
				AmountMinor:   t.AmountMinor,
				Counterparty:  t.Counterparty,
				Description:   t.Description,
			}
			err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "bank_account_id"}, {Name: "external_id"}},
				DoNothing: true,
			}).Create(&txRow).Error
			if err != nil {
				return res, fmt.Errorf("upsert transaction %s: %w", t.ExternalID, err)
			}
			res.Transactions++
		}
	}

	reconciled, err := s.autoReconcile(ctx)
	if err != nil {
		return res, err
	}
	res.Reconciled = reconciled

	s.logger.Info("bank sync complete",
		zap.String("provider", p.Name()),
		zap.Int("accounts", res.Accounts),
		zap.Int("transactions", res.Transactions))
	return res, nil
}

// autoReconcile matches unreconciled IDR outflows against finalized invoice
// totals. Exact-amount matching only; anything fuzzier stays manual.
func (s *Syncer) autoReconcile(ctx context.Context) (int, error) {
	var invoices []models.Invoice
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.InvoiceStatusFinal).
		Find(&invoices).Error; err != nil {
		return 0, fmt.Errorf("load final invoices: %w", err)
	}

	count := 0
	for _, inv := range invoices {
		if inv.TotalAmountIDR <= 0 {
			continue
		}
		result := s.db.WithContext(ctx).
			Model(&models.BankTransaction{}).
			Where("reconciled = ? AND amount_minor = ?", false, -inv.TotalAmountIDR).
			Where("bank_account_id IN (?)",
				s.db.Model(&models.BankAccount{}).Select("id").Where("currency = ?", "IDR")).
			Updates(map[string]interface{}{
				"reconciled":         true,
				"matched_invoice_id": inv.ID,
			})
		if result.Error != nil {
			return count, fmt.Errorf("reconcile invoice %s: %w", inv.ID, result.Error)
		}
		count += int(result.RowsAffected)
	}
	return count, nil
}
