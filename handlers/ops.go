package handlers

import (
	"net/http"
	"time"

	"yep.or.id/classadmin/models"
)

func (h *Handler) ListAPIUsage(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("created_at desc").Limit(500)
	if p := r.URL.Query().Get("provider"); p != "" {
		q = q.Where("provider = ?", p)
	}
	if month := r.URL.Query().Get("month"); month != "" {
		if start, err := time.Parse("2006-01", month); err == nil {
			q = q.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 1, 0))
		}
	}

	var items []models.APIUsage
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type usageSummaryRow struct {
	Provider     string `json:"provider"`
	Month        string `json:"month"`
	Calls        int64  `json:"calls"`
	CostMicroUSD int64  `json:"costMicroUsd"`
}

// APIUsageSummary groups external API spend by provider and month.
func (h *Handler) APIUsageSummary(w http.ResponseWriter, r *http.Request) {
	var rows []usageSummaryRow
	err := h.DB.Model(&models.APIUsage{}).
		Select("provider, to_char(created_at, 'YYYY-MM') as month, count(*) as calls, coalesce(sum(cost_micro_usd), 0) as cost_micro_usd").
		Group("provider, to_char(created_at, 'YYYY-MM')").
		Order("month desc, provider").
		Scan(&rows).Error
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) ListCronJobRuns(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("started_at desc").Limit(200)
	if name := r.URL.Query().Get("job"); name != "" {
		q = q.Where("job_name = ?", name)
	}

	var items []models.CronJobRun
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) ListAppLogs(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("created_at desc").Limit(500)
	if level := r.URL.Query().Get("level"); level != "" {
		q = q.Where("level = ?", level)
	}
	if scope := r.URL.Query().Get("scope"); scope != "" {
		q = q.Where("scope = ?", scope)
	}

	var items []models.AppLog
	if err := q.Find(&items).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
