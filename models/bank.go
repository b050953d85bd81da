package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bank aggregator providers.
const (
	BankProviderMercury = "mercury"
	BankProviderWise    = "wise"
)

// BankAccount mirrors one account at an aggregator. Balance is stored in the
// account currency's minor units (cents for USD, whole rupiah for IDR).
type BankAccount struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Provider     string     `gorm:"size:20;not null;uniqueIndex:idx_bank_provider_ext" json:"provider"`
	ExternalID   string     `gorm:"size:100;not null;uniqueIndex:idx_bank_provider_ext" json:"externalId"`
	Name         string     `gorm:"size:150" json:"name"`
	Currency     string     `gorm:"size:3;not null" json:"currency"`
	BalanceMinor int64      `gorm:"column:balance_minor;not null;default:0" json:"balanceMinor"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BankTransaction is one synced ledger entry. AmountMinor is negative for
// outflows. ExternalID is unique per account so re-syncs are idempotent.
type BankTransaction struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BankAccountID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_banktx_acct_ext" json:"bankAccountId"`
	BankAccount   BankAccount `gorm:"foreignKey:BankAccountID" json:"bankAccount,omitempty"`
	ExternalID    string      `gorm:"size:100;not null;uniqueIndex:idx_banktx_acct_ext" json:"externalId"`
	PostedAt      time.Time   `gorm:"not null;index" json:"postedAt"`
	AmountMinor   int64       `gorm:"column:amount_minor;not null" json:"amountMinor"`
	Counterparty  string      `gorm:"size:200" json:"counterparty"`
	Description   string      `gorm:"size:500" json:"description"`

	Reconciled       bool       `gorm:"default:false" json:"reconciled"`
	MatchedInvoiceID *uuid.UUID `gorm:"type:uuid;index" json:"matchedInvoiceId,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
