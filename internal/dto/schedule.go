package dto

import "time"

// CreateScheduleRequest creates one billing window. Dates arrive as
// RFC3339 timestamps.
type CreateScheduleRequest struct {
	BillingDate time.Time `json:"billing_date" validate:"required"`
	DisableDate time.Time `json:"disable_date" validate:"required"`
	Description string    `json:"description" validate:"omitempty,max=255"`
	IsActive    *bool     `json:"is_active"`
}

// UpdateScheduleRequest is a partial update; absent fields keep their
// stored values.
type UpdateScheduleRequest struct {
	BillingDate *time.Time `json:"billing_date"`
	DisableDate *time.Time `json:"disable_date"`
	Description *string    `json:"description" validate:"omitempty,max=255"`
	IsActive    *bool      `json:"is_active"`
}
