package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification labels shared by the GPS and AI checks.
const (
	MatchHigh      = "high"
	MatchLikely    = "likely"
	MatchUncertain = "uncertain"
	MatchUnlikely  = "unlikely"
)

// Date/time match outcomes for the EXIF cross-check.
const (
	DateMatchOK       = "match"
	DateMatchMismatch = "mismatch"
	DateMatchNoExif   = "no_exif"
	DateMatchNoTime   = "no_time"
)

// ClassLog is one teaching session at an orphanage. The AI* and photo GPS
// fields are written only by the verification pipeline, never by form input;
// re-running analysis overwrites them and bumps AIAnalyzedAt.
type ClassLog struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrphanageID  uuid.UUID   `gorm:"type:uuid;index;not null" json:"orphanageId"`
	Orphanage    Orphanage   `gorm:"foreignKey:OrphanageID" json:"orphanage,omitempty"`
	TeacherID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"teacherId"`
	Teacher      User        `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	ClassGroupID *uuid.UUID  `gorm:"type:uuid;index" json:"classGroupId,omitempty"`
	ClassGroup   *ClassGroup `gorm:"foreignKey:ClassGroupID" json:"classGroup,omitempty"`

	Date         time.Time `gorm:"type:date;not null;index" json:"date"`
	TimeRange    *string   `gorm:"size:50" json:"timeRange,omitempty"` // as entered, e.g. "09.00-10.00 am"
	StudentCount *int      `json:"studentCount,omitempty"`
	Notes        *string   `json:"notes,omitempty"`

	Photos []ClassLogPhoto `gorm:"foreignKey:ClassLogID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`

	// AI analysis results (pass-through from the vision service).
	AIKidCount             *int       `gorm:"column:ai_kid_count" json:"aiKidCount,omitempty"`
	AILocationDescription  *string    `gorm:"column:ai_location_description" json:"aiLocationDescription,omitempty"`
	AITimestampDescription *string    `gorm:"column:ai_timestamp_description" json:"aiTimestampDescription,omitempty"`
	AIOrphanageMatch       *string    `gorm:"column:ai_orphanage_match;size:20" json:"aiOrphanageMatch,omitempty"`
	AIConfidenceNotes      *string    `gorm:"column:ai_confidence_notes" json:"aiConfidenceNotes,omitempty"`
	AIAnalyzedAt           *time.Time `gorm:"column:ai_analyzed_at" json:"aiAnalyzedAt,omitempty"`

	// GPS / EXIF cross-check results.
	PhotoLatitude          *float64   `json:"photoLatitude,omitempty"`
	PhotoLongitude         *float64   `json:"photoLongitude,omitempty"`
	DistanceFromOrphanageM *float64   `gorm:"column:distance_from_orphanage_m" json:"distanceFromOrphanageM,omitempty"`
	GPSMatch               *string    `gorm:"column:gps_match;size:20" json:"gpsMatch,omitempty"`
	ExifCapturedAt         *time.Time `gorm:"column:exif_captured_at" json:"exifCapturedAt,omitempty"`
	DateMatch              *string    `gorm:"size:20" json:"dateMatch,omitempty"`
	DateMatchNotes         *string    `json:"dateMatchNotes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ClassLogPhoto is one uploaded photo with the EXIF hints extracted at upload
// time. The blob itself lives in GCS or on local disk; URL points at it.
type ClassLogPhoto struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClassLogID  uuid.UUID `gorm:"type:uuid;index;not null" json:"classLogId"`
	URL         string    `gorm:"size:500;not null" json:"url"`
	Filename    string    `gorm:"size:255" json:"filename"`
	ContentType string    `gorm:"size:100" json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`

	ExifLatitude   *float64   `json:"exifLatitude,omitempty"`
	ExifLongitude  *float64   `json:"exifLongitude,omitempty"`
	ExifCapturedAt *time.Time `json:"exifCapturedAt,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// OrphanageMatchVerified maps an AI match label to a tri-state verification:
// true for high/likely, false for uncertain/unlikely, nil when no analysis
// has run (unknown, not false).
func (c *ClassLog) OrphanageMatchVerified() *bool {
	if c.AIOrphanageMatch == nil || *c.AIOrphanageMatch == "" {
		return nil
	}
	v := *c.AIOrphanageMatch == MatchHigh || *c.AIOrphanageMatch == MatchLikely
	return &v
}
