package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"yep.or.id/classadmin/config"
	"yep.or.id/classadmin/middleware"
	"yep.or.id/classadmin/models"
	"yep.or.id/classadmin/pkg/banking"
	"yep.or.id/classadmin/pkg/geocode"
	"yep.or.id/classadmin/pkg/mailer"
	"yep.or.id/classadmin/pkg/storage"
	"yep.or.id/classadmin/pkg/vision"
)

// Handler bundles the dependencies every request handler needs. Everything
// is injected here once at startup; there are no package-level singletons.
type Handler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Auth  *middleware.Auth
	Log   *zap.Logger
	Store storage.Store

	// External service clients; nil when not configured, in which case the
	// dependent endpoints report the feature as unavailable.
	Vision   *vision.Client
	Geocoder *geocode.Client
	Mailer   *mailer.Mailer
	Syncer   *banking.Syncer
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// appLog persists a notable event for the admin log screen. Failures are
// swallowed: the durable log must never break the request it describes.
func (h *Handler) appLog(level, scope, message string) {
	row := models.AppLog{Level: level, Scope: scope, Message: message}
	if err := h.DB.Create(&row).Error; err != nil {
		h.Log.Warn("persist app log", zap.Error(err))
	}
}

// recordAPIUsage tracks one billable external call for the cost screen.
func (h *Handler) recordAPIUsage(row models.APIUsage) {
	if err := h.DB.Create(&row).Error; err != nil {
		h.Log.Warn("persist api usage", zap.Error(err))
	}
}
