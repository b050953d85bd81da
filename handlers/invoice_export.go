package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"yep.or.id/classadmin/models"
	"yep.or.id/classadmin/pkg/pdf"
)

// ExportInvoicePDF streams the invoice as a formatted PDF download.
func (h *Handler) ExportInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var inv models.Invoice
	err := h.DB.Preload("LineItems.Orphanage").Preload("MiscItems").
		First(&inv, "id = ?", id).Error
	if err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=invoice_%s.pdf", inv.Period()))
	if err := pdf.RenderInvoice(w, &inv); err != nil {
		h.Log.Error("render invoice pdf: " + err.Error())
	}
}

// ExportInvoiceXLSX streams the invoice as an Excel workbook.
func (h *Handler) ExportInvoiceXLSX(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var inv models.Invoice
	err := h.DB.Preload("LineItems.Orphanage").Preload("MiscItems").
		First(&inv, "id = ?", id).Error
	if err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	f, err := buildInvoiceWorkbook(&inv)
	if err != nil {
		http.Error(w, "failed to generate Excel file", http.StatusInternalServerError)
		return
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=invoice_%s.xlsx", inv.Period()))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

func buildInvoiceWorkbook(inv *models.Invoice) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Invoice"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Invoice "+inv.Period())
	f.SetCellValue(sheet, "A2", "Status: "+inv.Status)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 4
	headers := []string{"Orphanage", "Classes", "Rate (IDR)", "Subtotal (IDR)"}
	for i, label := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, label)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "D", 16)

	for _, li := range inv.LineItems {
		row++
		name := li.Orphanage.Name
		if name == "" {
			name = li.OrphanageID.String()
		}
		set := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, v)
		}
		set(1, name)
		set(2, li.ClassCount)
		set(3, li.RatePerClassIDR)
		set(4, li.SubtotalIDR)
	}

	if len(inv.MiscItems) > 0 {
		row += 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, cell, "Miscellaneous")
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		for _, mi := range inv.MiscItems {
			row++
			set := func(col int, v interface{}) {
				c, _ := excelize.CoordinatesToCellName(col, row)
				f.SetCellValue(sheet, c, v)
			}
			set(1, mi.Description)
			set(2, mi.Quantity)
			set(3, mi.RateIDR)
			set(4, mi.SubtotalIDR)
		}
	}

	row += 2
	totalCell, _ := excelize.CoordinatesToCellName(1, row)
	f.SetCellValue(sheet, totalCell, "Total")
	f.SetCellStyle(sheet, totalCell, totalCell, headerStyle)
	amountCell, _ := excelize.CoordinatesToCellName(4, row)
	f.SetCellValue(sheet, amountCell, inv.TotalAmountIDR)

	return f, nil
}
