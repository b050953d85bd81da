package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"yep.or.id/classadmin/models"
)

func TestBuildInvoiceWorkbook(t *testing.T) {
	named := models.InvoiceLineItem{
		OrphanageID:     uuid.New(),
		Orphanage:       models.Orphanage{Name: "Panti Asuhan Harapan"},
		ClassCount:      10,
		RatePerClassIDR: 300000,
		SubtotalIDR:     3000000,
	}
	// Orphanage not preloaded: the id stands in for the name.
	unnamed := models.InvoiceLineItem{
		OrphanageID:     uuid.New(),
		ClassCount:      5,
		RatePerClassIDR: 300000,
		SubtotalIDR:     1500000,
	}
	inv := models.Invoice{
		ID:             uuid.New(),
		PeriodYear:     2025,
		PeriodMonth:    4,
		Status:         models.InvoiceStatusDraft,
		TotalClasses:   15,
		TotalAmountIDR: 4600000,
		MiscTotalIDR:   100000,
		LineItems:      []models.InvoiceLineItem{named, unnamed},
		MiscItems: []models.InvoiceMiscItem{
			{Description: "Books", Quantity: 2, RateIDR: 50000, SubtotalIDR: 100000},
		},
	}

	f, err := buildInvoiceWorkbook(&inv)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Invoice", "A1")
	require.NoError(t, err)
	require.Equal(t, "Invoice 2025-04", title)

	first, err := f.GetCellValue("Invoice", "A5")
	require.NoError(t, err)
	require.Equal(t, "Panti Asuhan Harapan", first)

	second, err := f.GetCellValue("Invoice", "A6")
	require.NoError(t, err)
	require.Equal(t, unnamed.OrphanageID.String(), second)

	subtotal, err := f.GetCellValue("Invoice", "D5")
	require.NoError(t, err)
	require.Equal(t, "3000000", subtotal)
}
