package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"yep.or.id/classadmin/models"
)

// ListOrphanages returns all orphanages, active first.
func (h *Handler) ListOrphanages(w http.ResponseWriter, r *http.Request) {
	var items []models.Orphanage
	if err := h.DB.Order("is_active desc, name").Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetOrphanage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var item models.Orphanage
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "orphanage not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// CreateOrphanage stores a new orphanage. When no coordinates are supplied
// and a geocoder is configured, the address is geocoded; a geocoding failure
// is logged but does not block the save (the coordinates just stay empty and
// photo GPS verification is skipped for this orphanage).
func (h *Handler) CreateOrphanage(w http.ResponseWriter, r *http.Request) {
	var item models.Orphanage
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	h.maybeGeocode(r, &item)

	if err := h.DB.Create(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateOrphanage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Orphanage
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "orphanage not found", http.StatusNotFound)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	h.maybeGeocode(r, &item)

	if err := h.DB.Save(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteOrphanage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result := h.DB.Where("id = ?", id).Delete(&models.Orphanage{})
	if result.Error != nil {
		http.Error(w, "failed to delete orphanage", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "orphanage not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Geocode resolves an orphanage's address to coordinates on demand,
// overwriting whatever was stored.
func (h *Handler) GeocodeOrphanage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Orphanage
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "orphanage not found", http.StatusNotFound)
		return
	}
	if h.Geocoder == nil {
		http.Error(w, "geocoding is not configured", http.StatusServiceUnavailable)
		return
	}
	if item.Address == "" {
		http.Error(w, "orphanage has no address to geocode", http.StatusBadRequest)
		return
	}

	res, err := h.Geocoder.Forward(r.Context(), item.Address)
	if err != nil {
		http.Error(w, "geocoding failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	h.recordAPIUsage(models.APIUsage{
		Provider:      models.APIProviderGeocoding,
		Operation:     "forward",
		RelatedEntity: &item.ID,
	})

	item.Latitude = &res.Latitude
	item.Longitude = &res.Longitude
	if err := h.DB.Save(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) maybeGeocode(r *http.Request, item *models.Orphanage) {
	if item.HasCoordinates() || h.Geocoder == nil || item.Address == "" {
		return
	}
	res, err := h.Geocoder.Forward(r.Context(), item.Address)
	if err != nil {
		h.Log.Warn("geocode on save failed", zap.String("address", item.Address), zap.Error(err))
		return
	}
	h.recordAPIUsage(models.APIUsage{
		Provider:  models.APIProviderGeocoding,
		Operation: "forward",
	})
	item.Latitude = &res.Latitude
	item.Longitude = &res.Longitude
}
