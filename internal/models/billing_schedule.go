package models

import "time"

// BillingSchedule is one global billing window applied to every
// configured user: a reminder fires at BillingDate, access revocation
// at DisableDate. BillingDate < DisableDate is enforced at the service
// layer on create and update.
type BillingSchedule struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	BillingDate time.Time `gorm:"not null" json:"billing_date"`
	DisableDate time.Time `gorm:"not null" json:"disable_date"`
	Description string    `json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BillingSchedule) TableName() string {
	return "billing_schedules"
}
