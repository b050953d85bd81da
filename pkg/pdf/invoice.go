// Package pdf renders invoices for sending to the foundation's bookkeeper.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"yep.or.id/classadmin/models"
)

// RenderInvoice writes an A4 PDF of the invoice to w. Line items must be
// preloaded with their orphanages.
func RenderInvoice(w io.Writer, inv *models.Invoice) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Invoice %s", inv.Period()), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, fmt.Sprintf("Class Invoice - %s", inv.Period()))
	doc.Ln(8)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, fmt.Sprintf("Status: %s", strings.ToUpper(inv.Status)))
	doc.Ln(10)

	// Line items table.
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(80, 7, "Orphanage", "1", 0, "L", false, 0, "")
	doc.CellFormat(25, 7, "Classes", "1", 0, "R", false, 0, "")
	doc.CellFormat(40, 7, "Rate (IDR)", "1", 0, "R", false, 0, "")
	doc.CellFormat(45, 7, "Subtotal (IDR)", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, li := range inv.LineItems {
		doc.CellFormat(80, 7, li.Orphanage.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, fmt.Sprintf("%d", li.ClassCount), "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 7, FormatIDR(li.RatePerClassIDR), "1", 0, "R", false, 0, "")
		doc.CellFormat(45, 7, FormatIDR(li.SubtotalIDR), "1", 1, "R", false, 0, "")
	}

	if len(inv.MiscItems) > 0 {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(80, 7, "Misc item", "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
		doc.CellFormat(40, 7, "Rate (IDR)", "1", 0, "R", false, 0, "")
		doc.CellFormat(45, 7, "Subtotal (IDR)", "1", 1, "R", false, 0, "")

		doc.SetFont("Helvetica", "", 10)
		for _, mi := range inv.MiscItems {
			doc.CellFormat(80, 7, mi.Description, "1", 0, "L", false, 0, "")
			doc.CellFormat(25, 7, fmt.Sprintf("%d", mi.Quantity), "1", 0, "R", false, 0, "")
			doc.CellFormat(40, 7, FormatIDR(mi.RateIDR), "1", 0, "R", false, 0, "")
			doc.CellFormat(45, 7, FormatIDR(mi.SubtotalIDR), "1", 1, "R", false, 0, "")
		}
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "B", 11)
	doc.Cell(0, 7, fmt.Sprintf("Total classes: %d", inv.TotalClasses))
	doc.Ln(6)
	doc.Cell(0, 7, fmt.Sprintf("Misc total: Rp %s", FormatIDR(inv.MiscTotalIDR)))
	doc.Ln(6)
	doc.Cell(0, 7, fmt.Sprintf("Total: Rp %s", FormatIDR(inv.TotalAmountIDR)))

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render invoice pdf: %w", err)
	}
	return nil
}

// FormatIDR renders rupiah with dot thousand separators, e.g. 4600000 ->
// "4.600.000". Negative amounts keep their sign.
func FormatIDR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := fmt.Sprintf("%d", amount)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
