package services

import (
	"time"

	"linepay_backend/internal/models"
)

// DisplayStatus is the derived access status shown on the admin
// surface. It is never persisted; it is recomputed from the latest
// ledger row on every read.
type DisplayStatus string

const (
	StatusActive          DisplayStatus = "Active"
	StatusBilling         DisplayStatus = "Billing"
	StatusInactiveNonPaid DisplayStatus = "Inactive-NonPaid"
)

// Project maps the latest ledger row and the current time to a display
// status. Pure function: same inputs, same output.
//
//   - no transaction ever recorded        -> Inactive-NonPaid
//   - status "on" in the current month    -> Active
//   - anything else                       -> Billing
func Project(latest *models.Transaction, now time.Time) DisplayStatus {
	if latest == nil {
		return StatusInactiveNonPaid
	}

	sameMonth := latest.TransTimestamp.Month() == now.Month() &&
		latest.TransTimestamp.Year() == now.Year()

	if latest.Status == models.TransactionStatusOn && sameMonth {
		return StatusActive
	}
	return StatusBilling
}
