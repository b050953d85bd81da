package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event is an outing, celebration or fundraiser, optionally tied to one
// orphanage. Photos holds a JSON array of storage URLs.
type Event struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrphanageID *uuid.UUID     `gorm:"type:uuid;index" json:"orphanageId,omitempty"`
	Orphanage   *Orphanage     `gorm:"foreignKey:OrphanageID" json:"orphanage,omitempty"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Date        time.Time      `gorm:"type:date;not null;index" json:"date"`
	Description *string        `json:"description,omitempty"`
	Photos      datatypes.JSON `gorm:"type:jsonb" json:"photos,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
