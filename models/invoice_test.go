package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// invoiceTestDB opens an in-memory database with hand-rolled DDL; the
// production schema relies on Postgres uuid defaults that sqlite cannot
// evaluate, so tests assign ids explicitly.
func invoiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE invoices (
			id text PRIMARY KEY,
			period_year integer NOT NULL,
			period_month integer NOT NULL,
			status text NOT NULL DEFAULT 'draft',
			notes text,
			total_classes integer NOT NULL DEFAULT 0,
			total_amount_idr integer NOT NULL DEFAULT 0,
			misc_total_idr integer NOT NULL DEFAULT 0,
			finalized_at datetime,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
		`CREATE TABLE invoice_line_items (
			id text PRIMARY KEY,
			invoice_id text NOT NULL,
			orphanage_id text NOT NULL,
			class_count integer NOT NULL DEFAULT 0,
			rate_per_class_idr integer NOT NULL,
			subtotal_idr integer NOT NULL,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE invoice_misc_items (
			id text PRIMARY KEY,
			invoice_id text NOT NULL,
			description text NOT NULL,
			quantity integer NOT NULL DEFAULT 1,
			rate_idr integer NOT NULL,
			subtotal_idr integer NOT NULL,
			receipt_url text,
			created_at datetime
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		for _, table := range []string{"invoice_misc_items", "invoice_line_items", "invoices"} {
			db.Exec("DROP TABLE " + table)
		}
	})
	return db
}

func newLineItem(invoiceID uuid.UUID, classes int, rate int64) InvoiceLineItem {
	return InvoiceLineItem{
		ID:              uuid.New(),
		InvoiceID:       invoiceID,
		OrphanageID:     uuid.New(),
		ClassCount:      classes,
		RatePerClassIDR: rate,
	}
}

func TestLineItemSubtotalComputedOnSave(t *testing.T) {
	db := invoiceTestDB(t)

	inv := Invoice{ID: uuid.New(), PeriodYear: 2025, PeriodMonth: 4, Status: InvoiceStatusDraft}
	require.NoError(t, db.Create(&inv).Error)

	li := newLineItem(inv.ID, 10, 300000)
	require.NoError(t, db.Create(&li).Error)
	require.EqualValues(t, 3000000, li.SubtotalIDR)

	mi := InvoiceMiscItem{ID: uuid.New(), InvoiceID: inv.ID, Description: "Books", Quantity: 2, RateIDR: 50000}
	require.NoError(t, db.Create(&mi).Error)
	require.EqualValues(t, 100000, mi.SubtotalIDR)
}

func TestRecalcInvoiceTotals(t *testing.T) {
	db := invoiceTestDB(t)

	inv := Invoice{ID: uuid.New(), PeriodYear: 2025, PeriodMonth: 4, Status: InvoiceStatusDraft}
	require.NoError(t, db.Create(&inv).Error)

	// Two orphanages plus one misc purchase:
	// 10*300k + 5*300k + 2*50k = 4,600,000.
	liA := newLineItem(inv.ID, 10, 300000)
	liB := newLineItem(inv.ID, 5, 300000)
	require.NoError(t, db.Create(&liA).Error)
	require.NoError(t, db.Create(&liB).Error)
	mi := InvoiceMiscItem{ID: uuid.New(), InvoiceID: inv.ID, Description: "Books", Quantity: 2, RateIDR: 50000}
	require.NoError(t, db.Create(&mi).Error)

	require.NoError(t, RecalcInvoiceTotals(db, inv.ID))

	var got Invoice
	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	require.Equal(t, 15, got.TotalClasses)
	require.EqualValues(t, 4600000, got.TotalAmountIDR)
	require.EqualValues(t, 100000, got.MiscTotalIDR)
}

func TestRecalcAfterLineItemChange(t *testing.T) {
	db := invoiceTestDB(t)

	inv := Invoice{ID: uuid.New(), PeriodYear: 2025, PeriodMonth: 5, Status: InvoiceStatusDraft}
	require.NoError(t, db.Create(&inv).Error)

	li := newLineItem(inv.ID, 8, 250000)
	require.NoError(t, db.Create(&li).Error)
	require.NoError(t, RecalcInvoiceTotals(db, inv.ID))

	err := db.Transaction(func(tx *gorm.DB) error {
		li.ClassCount = 12
		if err := tx.Save(&li).Error; err != nil {
			return err
		}
		return RecalcInvoiceTotals(tx, inv.ID)
	})
	require.NoError(t, err)

	var got Invoice
	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	require.Equal(t, 12, got.TotalClasses)
	require.EqualValues(t, 3000000, got.TotalAmountIDR)
}

func TestRecalcAfterMiscItemDelete(t *testing.T) {
	db := invoiceTestDB(t)

	inv := Invoice{ID: uuid.New(), PeriodYear: 2025, PeriodMonth: 6, Status: InvoiceStatusDraft}
	require.NoError(t, db.Create(&inv).Error)

	li := newLineItem(inv.ID, 4, 300000)
	require.NoError(t, db.Create(&li).Error)
	mi := InvoiceMiscItem{ID: uuid.New(), InvoiceID: inv.ID, Description: "Transport refund", Quantity: 1, RateIDR: -75000}
	require.NoError(t, db.Create(&mi).Error)
	require.NoError(t, RecalcInvoiceTotals(db, inv.ID))

	var got Invoice
	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	require.EqualValues(t, 1200000-75000, got.TotalAmountIDR)
	require.EqualValues(t, -75000, got.MiscTotalIDR)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&mi).Error; err != nil {
			return err
		}
		return RecalcInvoiceTotals(tx, inv.ID)
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&got, "id = ?", inv.ID).Error)
	require.EqualValues(t, 1200000, got.TotalAmountIDR)
	require.EqualValues(t, 0, got.MiscTotalIDR)
}

func TestInvoicePeriodFormatting(t *testing.T) {
	inv := Invoice{PeriodYear: 2025, PeriodMonth: 4}
	require.Equal(t, "2025-04", inv.Period())
}
