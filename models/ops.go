package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// API usage providers.
const (
	APIProviderGemini    = "gemini"
	APIProviderGeocoding = "geocoding"
)

// APIUsage records one billable external API call. Cost is tracked in USD
// micro-units (1e-6 USD) so small per-call prices stay integral.
type APIUsage struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Provider      string     `gorm:"size:30;not null;index" json:"provider"`
	Operation     string     `gorm:"size:50;not null" json:"operation"`
	InputTokens   int        `json:"inputTokens"`
	OutputTokens  int        `json:"outputTokens"`
	CostMicroUSD  int64      `gorm:"column:cost_micro_usd;not null;default:0" json:"costMicroUsd"`
	RelatedEntity *uuid.UUID `gorm:"type:uuid;index" json:"relatedEntity,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
}

// Cron run statuses.
const (
	CronStatusOK    = "ok"
	CronStatusError = "error"
)

// CronJobRun is the run history for scheduled jobs (bank sync, OTP purge).
type CronJobRun struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobName    string     `gorm:"size:50;not null;index" json:"jobName"`
	StartedAt  time.Time  `gorm:"not null" json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Status     string     `gorm:"size:10;not null;default:'ok'" json:"status"`
	Detail     *string    `json:"detail,omitempty"`
}

// AppLog persists notable application events for the admin log screen; it is
// a durable complement to the zap process log, not a replacement.
type AppLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Scope     string         `gorm:"size:50;not null;index" json:"scope"`
	Message   string         `gorm:"size:1000;not null" json:"message"`
	Context   datatypes.JSON `gorm:"type:jsonb" json:"context,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TransparencyReport is a public accounting summary for a period. Generated
// as draft, then published; published reports are visible in the donor
// portal without authentication.
type TransparencyReport struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PeriodYear  int            `gorm:"not null;index:idx_treport_period" json:"periodYear"`
	PeriodMonth int            `gorm:"not null;index:idx_treport_period" json:"periodMonth"`
	Body        datatypes.JSON `gorm:"type:jsonb;not null" json:"body"`
	Published   bool           `gorm:"default:false" json:"published"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}
