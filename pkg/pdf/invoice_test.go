package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yep.or.id/classadmin/models"
)

func TestFormatIDR(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{500, "500"},
		{50000, "50.000"},
		{300000, "300.000"},
		{4600000, "4.600.000"},
		{1500000000, "1.500.000.000"},
		{-100000, "-100.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatIDR(tt.amount), "amount %d", tt.amount)
	}
}

func TestRenderInvoice(t *testing.T) {
	inv := &models.Invoice{
		PeriodYear:     2025,
		PeriodMonth:    4,
		Status:         models.InvoiceStatusDraft,
		TotalClasses:   15,
		TotalAmountIDR: 4_600_000,
		MiscTotalIDR:   100_000,
		LineItems: []models.InvoiceLineItem{
			{Orphanage: models.Orphanage{Name: "Panti Asuhan Harapan"}, ClassCount: 10, RatePerClassIDR: 300_000, SubtotalIDR: 3_000_000},
			{Orphanage: models.Orphanage{Name: "Panti Asuhan Kasih"}, ClassCount: 5, RatePerClassIDR: 300_000, SubtotalIDR: 1_500_000},
		},
		MiscItems: []models.InvoiceMiscItem{
			{Description: "Books", Quantity: 2, RateIDR: 50_000, SubtotalIDR: 100_000},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderInvoice(&buf, inv))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should be a PDF document")
	assert.Greater(t, buf.Len(), 1000)
}
