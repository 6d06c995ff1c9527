package dto

import "time"

// PaymentListEntry is one row of the admin payment overview with the
// derived access status attached.
type PaymentListEntry struct {
	LineUserID           string     `json:"line_user_id"`
	DisplayName          string     `json:"display_name"`
	PictureURL           string     `json:"picture_url"`
	LastMessage          string     `json:"last_message"`
	LastMessageTimestamp *time.Time `json:"last_message_timestamp"`
	Username             *string    `json:"username"`
	AccountType          *string    `json:"type"`
	RequiredAmount       *float64   `json:"required_amount"`
	LastPaymentDate      *time.Time `json:"last_payment_date"`
	LastPaymentAmount    *float64   `json:"last_payment_amount"`
	Status               string     `json:"status"`
}

// UserDetail is the single-user admin view: profile plus transaction
// history and derived status.
type UserDetail struct {
	LineUserID           string        `json:"line_user_id"`
	DisplayName          string        `json:"display_name"`
	PictureURL           string        `json:"picture_url"`
	StatusMessage        string        `json:"status_message"`
	Language             string        `json:"language"`
	LastMessage          string        `json:"last_message"`
	LastMessageTimestamp *time.Time    `json:"last_message_timestamp"`
	Status               string        `json:"status"`
	Transactions         []Transaction `json:"transactions"`
}

// Transaction is one ledger row as served to the admin surface.
type Transaction struct {
	ID             int64     `json:"id"`
	TransRef       string    `json:"trans_ref"`
	Amount         float64   `json:"amount"`
	RequiredAmount float64   `json:"required_amount"`
	SendingBank    string    `json:"sending_bank"`
	ReceivingBank  string    `json:"receiving_bank"`
	TransTimestamp time.Time `json:"trans_timestamp"`
	Status         string    `json:"status"`
}
