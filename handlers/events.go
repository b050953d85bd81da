package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"yep.or.id/classadmin/models"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("date desc")
	if oid := r.URL.Query().Get("orphanageId"); oid != "" {
		q = q.Where("orphanage_id = ?", oid)
	}

	var items []models.Event
	if err := q.Preload("Orphanage").Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var item models.Event
	if err := h.DB.Preload("Orphanage").First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

type eventReq struct {
	OrphanageID *uuid.UUID       `json:"orphanageId,omitempty"`
	Title       string           `json:"title"`
	Date        *models.JSONTime `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Photos      []string         `json:"photos,omitempty"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Date == nil {
		http.Error(w, "title and date are required", http.StatusBadRequest)
		return
	}

	item := models.Event{
		OrphanageID: req.OrphanageID,
		Title:       req.Title,
		Date:        req.Date.Date(),
		Description: req.Description,
	}
	if req.Photos != nil {
		raw, _ := json.Marshal(req.Photos)
		item.Photos = datatypes.JSON(raw)
	}

	if err := h.DB.Create(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.Event
	if err := h.DB.First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}

	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Title != "" {
		item.Title = req.Title
	}
	if req.OrphanageID != nil {
		item.OrphanageID = req.OrphanageID
	}
	if req.Date != nil {
		item.Date = req.Date.Date()
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Photos != nil {
		raw, _ := json.Marshal(req.Photos)
		item.Photos = datatypes.JSON(raw)
	}

	if err := h.DB.Save(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.DB.Delete(&models.Event{}, "id = ?", id).Error; err != nil {
		http.Error(w, "failed to delete event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
