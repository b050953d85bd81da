package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
)

func (h *Handler) ListTransparencyReports(w http.ResponseWriter, r *http.Request) {
	var items []models.TransparencyReport
	err := h.DB.Order("period_year desc, period_month desc").Find(&items).Error
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type generateReportReq struct {
	PeriodYear  int `json:"periodYear"`
	PeriodMonth int `json:"periodMonth"`
}

// reportBody is the public accounting summary serialized into the report's
// jsonb column.
type reportBody struct {
	Period          string        `json:"period"`
	ClassesHeld     int64         `json:"classesHeld"`
	OrphanagesCount int64         `json:"orphanagesCount"`
	DonationsIDR    int64         `json:"donationsIdr"`
	InvoicedIDR     int64         `json:"invoicedIdr"`
	PublicDonors    []publicDonor `json:"publicDonors"`
	GeneratedAt     time.Time     `json:"generatedAt"`
}

type publicDonor struct {
	Name      string `json:"name"`
	AmountIDR int64  `json:"amountIdr"`
}

// GenerateTransparencyReport builds (or rebuilds) the draft report for a
// period from that month's class logs, donations and finalized invoices.
// Only donors who opted in appear by name.
func (h *Handler) GenerateTransparencyReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.PeriodYear < 2000 || req.PeriodMonth < 1 || req.PeriodMonth > 12 {
		http.Error(w, "periodYear and periodMonth (1-12) are required", http.StatusBadRequest)
		return
	}

	start := time.Date(req.PeriodYear, time.Month(req.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	body := reportBody{
		Period:      start.Format("2006-01"),
		GeneratedAt: time.Now(),
	}

	err := h.DB.Model(&models.ClassLog{}).
		Where("date >= ? AND date < ?", start, end).
		Count(&body.ClassesHeld).Error
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.DB.Model(&models.ClassLog{}).
		Where("date >= ? AND date < ?", start, end).
		Distinct("orphanage_id").Count(&body.OrphanagesCount)
	h.DB.Model(&models.Donation{}).
		Where("date >= ? AND date < ?", start, end).
		Select("coalesce(sum(amount_idr), 0)").Scan(&body.DonationsIDR)
	h.DB.Model(&models.Invoice{}).
		Where("period_year = ? AND period_month = ? AND status = ?",
			req.PeriodYear, req.PeriodMonth, models.InvoiceStatusFinal).
		Select("coalesce(sum(total_amount_idr), 0)").Scan(&body.InvoicedIDR)

	var publicGifts []models.Donation
	h.DB.Preload("Donor").
		Where("date >= ? AND date < ? AND is_public = ?", start, end, true).
		Find(&publicGifts)
	for _, d := range publicGifts {
		name := "Anonymous"
		if d.Donor != nil && d.Donor.Name != "" {
			name = d.Donor.Name
		}
		body.PublicDonors = append(body.PublicDonors, publicDonor{Name: name, AmountIDR: d.AmountIDR})
	}

	raw, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "failed to serialize report", http.StatusInternalServerError)
		return
	}

	var report models.TransparencyReport
	err = h.DB.Where("period_year = ? AND period_month = ?", req.PeriodYear, req.PeriodMonth).
		First(&report).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		report = models.TransparencyReport{
			PeriodYear:  req.PeriodYear,
			PeriodMonth: req.PeriodMonth,
			Body:        datatypes.JSON(raw),
		}
		if err := h.DB.Create(&report).Error; err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
	case err != nil:
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	default:
		if report.Published {
			http.Error(w, "report already published; unpublish before regenerating", http.StatusConflict)
			return
		}
		if err := h.DB.Model(&report).Update("body", datatypes.JSON(raw)).Error; err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		report.Body = datatypes.JSON(raw)
	}

	respondJSON(w, http.StatusOK, report)
}

// PublishTransparencyReport makes a draft report publicly visible.
func (h *Handler) PublishTransparencyReport(w http.ResponseWriter, r *http.Request) {
	h.setReportPublished(w, r, true)
}

// UnpublishTransparencyReport hides a published report again.
func (h *Handler) UnpublishTransparencyReport(w http.ResponseWriter, r *http.Request) {
	h.setReportPublished(w, r, false)
}

func (h *Handler) setReportPublished(w http.ResponseWriter, r *http.Request, published bool) {
	id := mux.Vars(r)["id"]

	var report models.TransparencyReport
	if err := h.DB.First(&report, "id = ?", id).Error; err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	updates := map[string]interface{}{"published": published}
	if published {
		now := time.Now()
		updates["published_at"] = now
	} else {
		updates["published_at"] = nil
	}
	if err := h.DB.Model(&report).Updates(updates).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// PublicReports lists published reports without authentication; this backs
// the public transparency page.
func (h *Handler) PublicReports(w http.ResponseWriter, r *http.Request) {
	var items []models.TransparencyReport
	err := h.DB.Where("published = ?", true).
		Order("period_year desc, period_month desc").Find(&items).Error
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// PublicLatestReport returns the most recent published report, for the
// landing page embed.
func (h *Handler) PublicLatestReport(w http.ResponseWriter, r *http.Request) {
	var item models.TransparencyReport
	err := h.DB.Where("published = ?", true).
		Order("period_year desc, period_month desc").First(&item).Error
	if err != nil {
		http.Error(w, "no published report yet", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
