package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice statuses. Draft invoices are excluded from runway projections;
// the transition is reversible.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusFinal = "final"
)

// Invoice is a billing-period aggregate. TotalClasses, TotalAmountIDR and
// MiscTotalIDR are derived: they must always equal the sum over line items
// and misc items. RecalcInvoiceTotals restores the invariant inside the same
// transaction as every line-item or misc-item mutation.
type Invoice struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PeriodYear  int       `gorm:"not null;index:idx_invoice_period" json:"periodYear"`
	PeriodMonth int       `gorm:"not null;index:idx_invoice_period" json:"periodMonth"`
	Status      string    `gorm:"size:10;not null;default:'draft'" json:"status"`
	Notes       *string   `json:"notes,omitempty"`

	TotalClasses   int   `gorm:"not null;default:0" json:"totalClasses"`
	TotalAmountIDR int64 `gorm:"column:total_amount_idr;not null;default:0" json:"totalAmountIdr"`
	MiscTotalIDR   int64 `gorm:"column:misc_total_idr;not null;default:0" json:"miscTotalIdr"`

	FinalizedAt *time.Time `json:"finalizedAt,omitempty"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lineItems,omitempty"`
	MiscItems []InvoiceMiscItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"miscItems,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// InvoiceLineItem is one orphanage's class count and subtotal for the period.
type InvoiceLineItem struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID       uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	OrphanageID     uuid.UUID `gorm:"type:uuid;index;not null" json:"orphanageId"`
	Orphanage       Orphanage `gorm:"foreignKey:OrphanageID" json:"orphanage,omitempty"`
	ClassCount      int       `gorm:"not null;default:0" json:"classCount"`
	RatePerClassIDR int64     `gorm:"column:rate_per_class_idr;not null" json:"ratePerClassIdr"`
	SubtotalIDR     int64     `gorm:"column:subtotal_idr;not null" json:"subtotalIdr"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// InvoiceMiscItem is an ad-hoc charge or credit. RateIDR may be negative.
type InvoiceMiscItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	RateIDR     int64     `gorm:"column:rate_idr;not null" json:"rateIdr"`
	SubtotalIDR int64     `gorm:"column:subtotal_idr;not null" json:"subtotalIdr"`
	ReceiptURL  *string   `gorm:"size:500" json:"receiptUrl,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Period renders the billing period as "2025-04".
func (inv *Invoice) Period() string {
	return fmt.Sprintf("%04d-%02d", inv.PeriodYear, inv.PeriodMonth)
}

// RecalcInvoiceTotals recomputes the derived totals from the invoice's line
// items and misc items and writes them back. It must run on the same tx as
// the mutation that triggered it so a successful write never leaves stale
// totals behind.
func RecalcInvoiceTotals(tx *gorm.DB, invoiceID uuid.UUID) error {
	var lineItems []InvoiceLineItem
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&lineItems).Error; err != nil {
		return fmt.Errorf("load line items: %w", err)
	}
	var miscItems []InvoiceMiscItem
	if err := tx.Where("invoice_id = ?", invoiceID).Find(&miscItems).Error; err != nil {
		return fmt.Errorf("load misc items: %w", err)
	}

	var totalClasses int
	var classAmount int64
	for _, li := range lineItems {
		totalClasses += li.ClassCount
		classAmount += li.SubtotalIDR
	}
	var miscTotal int64
	for _, mi := range miscItems {
		miscTotal += mi.SubtotalIDR
	}

	return tx.Model(&Invoice{}).Where("id = ?", invoiceID).Updates(map[string]interface{}{
		"total_classes":    totalClasses,
		"total_amount_idr": classAmount + miscTotal,
		"misc_total_idr":   miscTotal,
	}).Error
}

func (li *InvoiceLineItem) BeforeSave(tx *gorm.DB) (err error) {
	li.SubtotalIDR = int64(li.ClassCount) * li.RatePerClassIDR
	return
}

func (mi *InvoiceMiscItem) BeforeSave(tx *gorm.DB) (err error) {
	mi.SubtotalIDR = int64(mi.Quantity) * mi.RateIDR
	return
}
