package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"yep.or.id/classadmin/models"
)

func (h *Handler) ListClassGroups(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Preload("Orphanage").Order("name")
	if orphanageID := r.URL.Query().Get("orphanageId"); orphanageID != "" {
		q = q.Where("orphanage_id = ?", orphanageID)
	}

	var items []models.ClassGroup
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetClassGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var item models.ClassGroup
	if err := h.DB.Preload("Orphanage").First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "class group not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) CreateClassGroup(w http.ResponseWriter, r *http.Request) {
	var item models.ClassGroup
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Name == "" || item.OrphanageID == uuid.Nil {
		http.Error(w, "name and orphanageId are required", http.StatusBadRequest)
		return
	}
	if item.RatePerClassIDR < 0 {
		http.Error(w, "ratePerClassIdr cannot be negative", http.StatusBadRequest)
		return
	}

	if err := h.DB.Create(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateClassGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.ClassGroup
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "class group not found", http.StatusNotFound)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.RatePerClassIDR < 0 {
		http.Error(w, "ratePerClassIdr cannot be negative", http.StatusBadRequest)
		return
	}

	if err := h.DB.Save(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteClassGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result := h.DB.Where("id = ?", id).Delete(&models.ClassGroup{})
	if result.Error != nil {
		http.Error(w, "failed to delete class group", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "class group not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
