package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"yep.or.id/classadmin/middleware"
	"yep.or.id/classadmin/models"
	"yep.or.id/classadmin/pkg/exifdata"
	"yep.or.id/classadmin/pkg/verification"
	"yep.or.id/classadmin/pkg/vision"
)

const maxUploadBytes = 50 << 20

// ListClassLogs returns class logs, newest first, optionally filtered by
// orphanage, teacher or month.
func (h *Handler) ListClassLogs(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Preload("Orphanage").Preload("Teacher").Preload("Photos").
		Order("date desc, created_at desc")

	if orphanageID := r.URL.Query().Get("orphanageId"); orphanageID != "" {
		q = q.Where("orphanage_id = ?", orphanageID)
	}
	if teacherID := r.URL.Query().Get("teacherId"); teacherID != "" {
		q = q.Where("teacher_id = ?", teacherID)
	}
	if month := r.URL.Query().Get("month"); month != "" { // "2025-04"
		start, err := time.Parse("2006-01", month)
		if err != nil {
			http.Error(w, "month must look like 2025-04", http.StatusBadRequest)
			return
		}
		q = q.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	var items []models.ClassLog
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) GetClassLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var item models.ClassLog
	err := h.DB.Preload("Orphanage").Preload("Teacher").Preload("ClassGroup").
		Preload("Photos").First(&item, "id = ?", id).Error
	if err != nil {
		http.Error(w, "class log not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// CreateClassLog accepts a multipart form with the log fields and one or
// more photos. A log without photos is rejected outright. After the row and
// its photos are stored, the GPS/EXIF cross-checks run, and AI analysis is
// attempted when configured; verification failures degrade to "unverified"
// and never block the save.
func (h *Handler) CreateClassLog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		http.Error(w, "at least one photo is required", http.StatusBadRequest)
		return
	}

	orphanageID, err := uuid.Parse(r.FormValue("orphanageId"))
	if err != nil {
		http.Error(w, "orphanageId is required", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", r.FormValue("date"))
	if err != nil {
		http.Error(w, "date must look like 2025-04-15", http.StatusBadRequest)
		return
	}

	var orphanage models.Orphanage
	if err := h.DB.First(&orphanage, "id = ?", orphanageID).Error; err != nil {
		http.Error(w, "orphanage not found", http.StatusNotFound)
		return
	}

	user := middleware.GetUser(r)
	if user == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	item := models.ClassLog{
		OrphanageID: orphanageID,
		TeacherID:   user.ID,
		Date:        date,
	}
	if v := r.FormValue("classGroupId"); v != "" {
		gid, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid classGroupId", http.StatusBadRequest)
			return
		}
		item.ClassGroupID = &gid
	}
	if v := r.FormValue("timeRange"); v != "" {
		item.TimeRange = &v
	}
	if v := r.FormValue("studentCount"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "studentCount must be a non-negative number", http.StatusBadRequest)
			return
		}
		item.StudentCount = &n
	}
	if v := r.FormValue("notes"); v != "" {
		item.Notes = &v
	}

	if err := h.DB.Create(&item).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Photos upload sequentially; a failed upload aborts with the photos
	// stored so far intact, and the admin retries.
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
			return
		}

		photo := models.ClassLogPhoto{
			ClassLogID:  item.ID,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			SizeBytes:   int64(len(data)),
		}
		if ex := exifdata.Extract(bytes.NewReader(data)); ex != nil {
			photo.ExifLatitude = ex.Latitude
			photo.ExifLongitude = ex.Longitude
			photo.ExifCapturedAt = ex.CapturedAt
		}

		url, err := h.Store.Save(r.Context(), fh.Filename, photo.ContentType, bytes.NewReader(data))
		if err != nil {
			http.Error(w, "store photo: "+err.Error(), http.StatusBadGateway)
			return
		}
		photo.URL = url

		if err := h.DB.Create(&photo).Error; err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		item.Photos = append(item.Photos, photo)
	}

	h.runGPSVerification(&item, &orphanage)

	if h.Vision != nil {
		if err := h.runAIAnalysis(r, &item, &orphanage); err != nil {
			// Not fatal: the log is saved, analysis can be re-triggered.
			h.Log.Warn("ai analysis at creation failed",
				zap.String("classLog", item.ID.String()), zap.Error(err))
		}
	}

	var created models.ClassLog
	if err := h.DB.Preload("Orphanage").Preload("Teacher").Preload("Photos").
		First(&created, "id = ?", item.ID).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

type updateClassLogReq struct {
	Date         *string `json:"date,omitempty"`
	TimeRange    *string `json:"timeRange,omitempty"`
	StudentCount *int    `json:"studentCount,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// UpdateClassLog edits the user-entered fields only. The AI and GPS columns
// belong to the verification pipeline and cannot be set here; a date or time
// change re-runs the EXIF cross-check so the stored verdict stays coherent.
func (h *Handler) UpdateClassLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.ClassLog
	if err := h.DB.Preload("Photos").Preload("Orphanage").First(&item, "id = ?", id).Error; err != nil {
		http.Error(w, "class log not found", http.StatusNotFound)
		return
	}

	var req updateClassLogReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	rerunCheck := false
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			http.Error(w, "date must look like 2025-04-15", http.StatusBadRequest)
			return
		}
		item.Date = date
		updates["date"] = date
		rerunCheck = true
	}
	if req.TimeRange != nil {
		item.TimeRange = req.TimeRange
		updates["time_range"] = *req.TimeRange
		rerunCheck = true
	}
	if req.StudentCount != nil {
		updates["student_count"] = *req.StudentCount
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if err := h.DB.Model(&item).Updates(updates).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if rerunCheck {
		h.runGPSVerification(&item, &item.Orphanage)
	}

	var updated models.ClassLog
	if err := h.DB.Preload("Orphanage").Preload("Teacher").Preload("Photos").
		First(&updated, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteClassLog soft-deletes a log. Explicit admin action only.
func (h *Handler) DeleteClassLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result := h.DB.Where("id = ?", id).Delete(&models.ClassLog{})
	if result.Error != nil {
		http.Error(w, "failed to delete class log", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "class log not found", http.StatusNotFound)
		return
	}
	h.appLog("info", "classlog", "deleted class log "+id)
	w.WriteHeader(http.StatusNoContent)
}

// AnalyzeClassLog re-runs the GPS cross-check and AI photo analysis,
// overwriting the previous verdict and bumping the analyzed timestamp.
func (h *Handler) AnalyzeClassLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var item models.ClassLog
	err := h.DB.Preload("Orphanage").Preload("Photos").First(&item, "id = ?", id).Error
	if err != nil {
		http.Error(w, "class log not found", http.StatusNotFound)
		return
	}

	h.runGPSVerification(&item, &item.Orphanage)

	if h.Vision == nil {
		http.Error(w, "AI analysis is not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.runAIAnalysis(r, &item, &item.Orphanage); err != nil {
		http.Error(w, "AI analysis failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	var updated models.ClassLog
	if err := h.DB.Preload("Orphanage").Preload("Photos").First(&updated, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// runGPSVerification computes the distance and date/time cross-checks from
// the first photo carrying EXIF data. Missing EXIF or missing orphanage
// coordinates leave the fields empty; nothing here can fail the request.
func (h *Handler) runGPSVerification(item *models.ClassLog, orphanage *models.Orphanage) {
	th := verification.Thresholds{
		HighM:         h.Cfg.GPSHighM,
		LikelyM:       h.Cfg.GPSLikelyM,
		UncertainM:    h.Cfg.GPSUncertainM,
		HourTolerance: h.Cfg.TimeHourTolerance,
	}

	updates := map[string]interface{}{
		"photo_latitude": nil, "photo_longitude": nil,
		"distance_from_orphanage_m": nil, "gps_match": nil,
		"exif_captured_at": nil, "date_match": nil, "date_match_notes": nil,
	}

	var gpsPhoto, timePhoto *models.ClassLogPhoto
	for i := range item.Photos {
		p := &item.Photos[i]
		if gpsPhoto == nil && p.ExifLatitude != nil && p.ExifLongitude != nil {
			gpsPhoto = p
		}
		if timePhoto == nil && p.ExifCapturedAt != nil {
			timePhoto = p
		}
	}

	if gpsPhoto != nil {
		updates["photo_latitude"] = *gpsPhoto.ExifLatitude
		updates["photo_longitude"] = *gpsPhoto.ExifLongitude
		if orphanage.HasCoordinates() {
			d := verification.DistanceMeters(
				*gpsPhoto.ExifLatitude, *gpsPhoto.ExifLongitude,
				*orphanage.Latitude, *orphanage.Longitude)
			updates["distance_from_orphanage_m"] = d
			updates["gps_match"] = verification.ClassifyDistance(d, th)
		}
	}

	timeStr := ""
	if item.TimeRange != nil {
		timeStr = *item.TimeRange
	}
	if timePhoto != nil {
		updates["exif_captured_at"] = *timePhoto.ExifCapturedAt
	}
	var exifTime *time.Time
	if timePhoto != nil {
		exifTime = timePhoto.ExifCapturedAt
	}
	label, notes := verification.MatchDateTime(item.Date, timeStr, exifTime, th)
	updates["date_match"] = label
	updates["date_match_notes"] = notes

	if err := h.DB.Model(&models.ClassLog{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		h.Log.Warn("persist gps verification", zap.String("classLog", item.ID.String()), zap.Error(err))
	}
}

// runAIAnalysis ships the photos plus local hints to the vision service and
// stores the verdict. The caller decides whether a failure is fatal.
func (h *Handler) runAIAnalysis(r *http.Request, item *models.ClassLog, orphanage *models.Orphanage) error {
	photos := make([][]byte, 0, len(item.Photos))
	for _, p := range item.Photos {
		data, err := h.photoBytes(p.URL)
		if err != nil {
			return fmt.Errorf("fetch photo %s: %w", p.ID, err)
		}
		photos = append(photos, data)
	}
	if len(photos) == 0 {
		return fmt.Errorf("class log has no photos")
	}

	hints := vision.Hints{
		OrphanageName: orphanage.Name,
		ClassDate:     item.Date.Format("2006-01-02"),
	}
	if item.TimeRange != nil {
		hints.ClassTime = verification.FormatStartTime(*item.TimeRange)
	}
	for _, p := range item.Photos {
		if p.ExifLatitude != nil && p.ExifLongitude != nil {
			hints.PhotoLat = p.ExifLatitude
			hints.PhotoLng = p.ExifLongitude
			break
		}
	}
	for _, p := range item.Photos {
		if p.ExifCapturedAt != nil {
			hints.ExifTime = p.ExifCapturedAt.Format(time.RFC3339)
			break
		}
	}

	analysis, usage, err := h.Vision.AnalyzeClassPhotos(r.Context(), photos, hints)
	h.recordAPIUsage(models.APIUsage{
		Provider:      models.APIProviderGemini,
		Operation:     "analyze_class_photos",
		InputTokens:   usage.InputTokens,
		OutputTokens:  usage.OutputTokens,
		CostMicroUSD:  usage.CostMicroUSD(),
		RelatedEntity: &item.ID,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"ai_kid_count":             analysis.KidCount,
		"ai_location_description":  analysis.LocationDescription,
		"ai_timestamp_description": analysis.TimestampDescription,
		"ai_confidence_notes":      analysis.ConfidenceNotes,
		"ai_analyzed_at":           now,
	}
	if analysis.OrphanageMatch != "" {
		updates["ai_orphanage_match"] = analysis.OrphanageMatch
	} else {
		updates["ai_orphanage_match"] = nil
	}
	return h.DB.Model(&models.ClassLog{}).Where("id = ?", item.ID).Updates(updates).Error
}

// photoBytes loads a stored photo back, from disk for local uploads and over
// HTTP for bucket URLs.
func (h *Handler) photoBytes(url string) ([]byte, error) {
	if strings.HasPrefix(url, "/uploads/") {
		return os.ReadFile(filepath.Join(h.Cfg.UploadDir, strings.TrimPrefix(url, "/uploads/")))
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
