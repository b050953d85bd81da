package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"yep.or.id/classadmin/models"
)

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("date desc")
	if did := r.URL.Query().Get("donorId"); did != "" {
		q = q.Where("donor_id = ?", did)
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if start, err := time.Parse("2006-01", month); err == nil {
			q = q.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
		}
	}

	var items []models.Donation
	if err := q.Preload("Donor").Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) ListDonors(w http.ResponseWriter, r *http.Request) {
	var items []models.Donor
	if err := h.DB.Order("name asc").Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type donationReq struct {
	DonorID    *uuid.UUID       `json:"donorId,omitempty"`
	DonorEmail *string          `json:"donorEmail,omitempty"`
	DonorName  *string          `json:"donorName,omitempty"`
	AmountIDR  int64            `json:"amountIdr"`
	Currency   string           `json:"currency,omitempty"`
	Date       *models.JSONTime `json:"date,omitempty"`
	Method     string           `json:"method,omitempty"`
	Message    *string          `json:"message,omitempty"`
	IsPublic   *bool            `json:"isPublic,omitempty"`
}

// CreateDonation records a gift. A donor account can be attached by id, or
// found-or-created by email so portal accounts exist before the donor ever
// signs in.
func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req donationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.AmountIDR <= 0 {
		http.Error(w, "amountIdr must be positive", http.StatusBadRequest)
		return
	}
	if req.Date == nil {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	item := models.Donation{
		DonorID:   req.DonorID,
		AmountIDR: req.AmountIDR,
		Currency:  "IDR",
		Date:      req.Date.Date(),
		Method:    req.Method,
		Message:   req.Message,
	}
	if req.Currency != "" {
		item.Currency = req.Currency
	}
	if req.IsPublic != nil {
		item.IsPublic = *req.IsPublic
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if item.DonorID == nil && req.DonorEmail != nil && *req.DonorEmail != "" {
			var donor models.Donor
			err := tx.Where("email = ?", *req.DonorEmail).First(&donor).Error
			if err == gorm.ErrRecordNotFound {
				donor = models.Donor{ID: uuid.New(), Email: *req.DonorEmail}
				if req.DonorName != nil {
					donor.Name = *req.DonorName
				}
				if err := tx.Create(&donor).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			item.DonorID = &donor.ID
		}

		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if item.DonorID != nil {
			return refreshDonorTotal(tx, *item.DonorID)
		}
		return nil
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Donation
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "donation not found", http.StatusNotFound)
		return
	}
	prevDonor := item.DonorID

	var req donationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.AmountIDR > 0 {
		item.AmountIDR = req.AmountIDR
	}
	if req.Date != nil {
		item.Date = req.Date.Date()
	}
	if req.DonorID != nil {
		item.DonorID = req.DonorID
	}
	if req.Method != "" {
		item.Method = req.Method
	}
	if req.Message != nil {
		item.Message = req.Message
	}
	if req.IsPublic != nil {
		item.IsPublic = *req.IsPublic
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if item.DonorID != nil {
			if err := refreshDonorTotal(tx, *item.DonorID); err != nil {
				return err
			}
		}
		if prevDonor != nil && (item.DonorID == nil || *prevDonor != *item.DonorID) {
			return refreshDonorTotal(tx, *prevDonor)
		}
		return nil
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Donation
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "donation not found", http.StatusNotFound)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		if item.DonorID != nil {
			return refreshDonorTotal(tx, *item.DonorID)
		}
		return nil
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// refreshDonorTotal recomputes the cached total from surviving donations.
func refreshDonorTotal(tx *gorm.DB, donorID uuid.UUID) error {
	var total int64
	err := tx.Model(&models.Donation{}).
		Where("donor_id = ?", donorID).
		Select("coalesce(sum(amount_idr), 0)").
		Scan(&total).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Donor{}).Where("id = ?", donorID).
		Update("total_donated_idr", total).Error
}
