package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Donor is a donor-portal account. There is no password; donors sign in by
// exchanging an emailed one-time code for a short-lived session token.
type Donor struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name  string    `gorm:"size:100" json:"name"`

	// Cached aggregate for the portal dashboard, refreshed on donation writes.
	TotalDonatedIDR int64 `gorm:"column:total_donated_idr;not null;default:0" json:"totalDonatedIdr"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// DonorOTP is one emailed 6-digit login code. Codes are single-use and
// expire; consumed and expired rows are purged by a cron job.
type DonorOTP struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DonorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"donorId"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	Consumed  bool      `gorm:"default:false" json:"consumed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Usable reports whether the code can still be redeemed.
func (o *DonorOTP) Usable(now time.Time) bool {
	return !o.Consumed && now.Before(o.ExpiresAt)
}

// Donation is one received gift. Public donations (donor consented) appear in
// transparency reports with the donor's name; others are listed anonymously.
type Donation struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DonorID   *uuid.UUID `gorm:"type:uuid;index" json:"donorId,omitempty"`
	Donor     *Donor     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	AmountIDR int64      `gorm:"column:amount_idr;not null" json:"amountIdr"`
	Currency  string     `gorm:"size:3;not null;default:'IDR'" json:"currency"`
	Date      time.Time  `gorm:"type:date;not null;index" json:"date"`
	Method    string     `gorm:"size:30" json:"method"` // bank-transfer, paypal, cash
	Message   *string    `json:"message,omitempty"`
	IsPublic  bool       `gorm:"default:false" json:"isPublic"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
