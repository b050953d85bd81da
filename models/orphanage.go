package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Orphanage is a partner home where classes are taught. Its registered
// coordinates are the ground truth for photo GPS verification; they stay nil
// until set by hand or geocoded from the street address.
type Orphanage struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Address      string    `gorm:"size:500" json:"address"`
	Latitude     *float64  `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude    *float64  `gorm:"column:longitude" json:"longitude,omitempty"`
	ContactName  *string   `gorm:"size:100" json:"contactName,omitempty"`
	ContactPhone *string   `gorm:"size:30" json:"contactPhone,omitempty"`
	ChildCount   *int      `json:"childCount,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasCoordinates reports whether the orphanage can serve as a GPS reference.
func (o *Orphanage) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// ClassGroup is a recurring class at one orphanage, e.g. "Beginners Tuesday".
// RatePerClassIDR feeds invoice line-item generation.
type ClassGroup struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrphanageID     uuid.UUID `gorm:"type:uuid;index;not null" json:"orphanageId"`
	Orphanage       Orphanage `gorm:"foreignKey:OrphanageID" json:"orphanage,omitempty"`
	Name            string    `gorm:"size:150;not null" json:"name"`
	Schedule        *string   `gorm:"size:200" json:"schedule,omitempty"` // free text, e.g. "Tue+Thu 4pm"
	RatePerClassIDR int64     `gorm:"not null;default:0" json:"ratePerClassIdr"`
	IsActive        bool      `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
