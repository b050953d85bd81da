package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
)

func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("period_year desc, period_month desc")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var items []models.Invoice
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var item models.Invoice
	err := h.DB.Preload("LineItems.Orphanage").Preload("MiscItems").
		First(&item, "id = ?", id).Error
	if err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

type createInvoiceReq struct {
	PeriodYear  int     `json:"periodYear"`
	PeriodMonth int     `json:"periodMonth"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateInvoice opens a draft invoice for a billing period and generates one
// line item per orphanage from that month's class logs, priced at the class
// group rate (logs without a group fall back to the orphanage's most common
// rate, or zero). Everything runs in one transaction so a half-generated
// invoice can never be observed.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.PeriodYear < 2000 || req.PeriodMonth < 1 || req.PeriodMonth > 12 {
		http.Error(w, "periodYear and periodMonth (1-12) are required", http.StatusBadRequest)
		return
	}

	var existing models.Invoice
	err := h.DB.Where("period_year = ? AND period_month = ?", req.PeriodYear, req.PeriodMonth).
		First(&existing).Error
	if err == nil {
		http.Error(w, "an invoice for this period already exists", http.StatusConflict)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	invoice := models.Invoice{
		ID:          uuid.New(),
		PeriodYear:  req.PeriodYear,
		PeriodMonth: req.PeriodMonth,
		Status:      models.InvoiceStatusDraft,
		Notes:       req.Notes,
	}

	start := time.Date(req.PeriodYear, time.Month(req.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		// Class counts and rates per orphanage for the period.
		type row struct {
			OrphanageID uuid.UUID
			ClassCount  int
			Rate        int64
		}
		var rows []row
		err := tx.Model(&models.ClassLog{}).
			Select("class_logs.orphanage_id, count(*) as class_count, coalesce(max(class_groups.rate_per_class_idr), 0) as rate").
			Joins("left join class_groups on class_groups.id = class_logs.class_group_id").
			Where("class_logs.date >= ? AND class_logs.date < ?", start, end).
			Group("class_logs.orphanage_id").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("aggregate class logs: %w", err)
		}

		for _, rrow := range rows {
			li := models.InvoiceLineItem{
				InvoiceID:       invoice.ID,
				OrphanageID:     rrow.OrphanageID,
				ClassCount:      rrow.ClassCount,
				RatePerClassIDR: rrow.Rate,
			}
			if err := tx.Create(&li).Error; err != nil {
				return err
			}
		}

		return models.RecalcInvoiceTotals(tx, invoice.ID)
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var created models.Invoice
	if err := h.DB.Preload("LineItems.Orphanage").First(&created, "id = ?", invoice.ID).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type patchInvoiceReq struct {
	Notes *string `json:"notes,omitempty"`
}

// PatchInvoice edits invoice metadata. Totals are derived and not editable.
func (h *Handler) PatchInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Invoice
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	var req patchInvoiceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Notes != nil {
		if err := h.DB.Model(&item).Update("notes", *req.Notes).Error; err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteInvoice removes a draft invoice and its items. Final invoices must
// be reverted to draft first.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Invoice
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	if item.Status == models.InvoiceStatusFinal {
		http.Error(w, "final invoices cannot be deleted; revert to draft first", http.StatusConflict)
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		http.Error(w, "failed to delete invoice", http.StatusInternalServerError)
		return
	}
	h.appLog("info", "invoice", "deleted invoice "+item.Period())
	w.WriteHeader(http.StatusNoContent)
}

type patchLineItemReq struct {
	ClassCount      *int   `json:"classCount,omitempty"`
	RatePerClassIDR *int64 `json:"ratePerClassIdr,omitempty"`
}

// PatchLineItem edits a line item's class count or rate. The mutation and
// the invoice totals recalculation share one transaction, so a successful
// response implies fresh totals.
func (h *Handler) PatchLineItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var li models.InvoiceLineItem
	if err := h.DB.First(&li, "id = ?", id).Error; err != nil {
		http.Error(w, "line item not found", http.StatusNotFound)
		return
	}

	var req patchLineItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ClassCount == nil && req.RatePerClassIDR == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}
	if req.ClassCount != nil {
		if *req.ClassCount < 0 {
			http.Error(w, "classCount cannot be negative", http.StatusBadRequest)
			return
		}
		li.ClassCount = *req.ClassCount
	}
	if req.RatePerClassIDR != nil {
		if *req.RatePerClassIDR < 0 {
			http.Error(w, "ratePerClassIdr cannot be negative", http.StatusBadRequest)
			return
		}
		li.RatePerClassIDR = *req.RatePerClassIDR
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&li).Error; err != nil {
			return err
		}
		return models.RecalcInvoiceTotals(tx, li.InvoiceID)
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, li)
}

type addMiscItemReq struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	RateIDR     int64   `json:"rateIdr"`
	ReceiptURL  *string `json:"receiptUrl,omitempty"`
}

// AddMiscItem appends an ad-hoc charge or credit, recalculating totals in
// the same transaction.
func (h *Handler) AddMiscItem(w http.ResponseWriter, r *http.Request) {
	invoiceID := mux.Vars(r)["id"]

	var invoice models.Invoice
	if err := h.DB.First(&invoice, "id = ?", invoiceID).Error; err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}

	var req addMiscItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		http.Error(w, "description is required", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	mi := models.InvoiceMiscItem{
		InvoiceID:   invoice.ID,
		Description: req.Description,
		Quantity:    req.Quantity,
		RateIDR:     req.RateIDR,
		ReceiptURL:  req.ReceiptURL,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mi).Error; err != nil {
			return err
		}
		return models.RecalcInvoiceTotals(tx, invoice.ID)
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, mi)
}

// DeleteMiscItem removes a misc item, recalculating totals in the same
// transaction.
func (h *Handler) DeleteMiscItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["itemId"]

	var mi models.InvoiceMiscItem
	if err := h.DB.First(&mi, "id = ?", id).Error; err != nil {
		http.Error(w, "misc item not found", http.StatusNotFound)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&mi).Error; err != nil {
			return err
		}
		return models.RecalcInvoiceTotals(tx, mi.InvoiceID)
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FinalizeInvoice moves draft -> final. Final invoices count toward the
// banking runway projection.
func (h *Handler) FinalizeInvoice(w http.ResponseWriter, r *http.Request) {
	h.setInvoiceStatus(w, r, models.InvoiceStatusFinal)
}

// UnfinalizeInvoice moves final -> draft. The transition is reversible by
// design; the UI asks for confirmation in both directions.
func (h *Handler) UnfinalizeInvoice(w http.ResponseWriter, r *http.Request) {
	h.setInvoiceStatus(w, r, models.InvoiceStatusDraft)
}

func (h *Handler) setInvoiceStatus(w http.ResponseWriter, r *http.Request, status string) {
	id := mux.Vars(r)["id"]

	var item models.Invoice
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return
	}
	if item.Status == status {
		http.Error(w, "invoice already "+status, http.StatusConflict)
		return
	}

	updates := map[string]interface{}{"status": status}
	if status == models.InvoiceStatusFinal {
		now := time.Now()
		updates["finalized_at"] = now
	} else {
		updates["finalized_at"] = nil
	}

	if err := h.DB.Model(&item).Updates(updates).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.appLog("info", "invoice", "invoice "+item.Period()+" marked "+status)
	respondJSON(w, http.StatusOK, item)
}
