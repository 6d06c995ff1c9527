package models

import (
	"time"

	"gorm.io/datatypes"
)

// TransactionStatus is the verified outcome of one slip: "on" when the
// paid amount covered the required amount, "off" otherwise.
type TransactionStatus string

const (
	TransactionStatusOn  TransactionStatus = "on"
	TransactionStatusOff TransactionStatus = "off"
)

// Transaction is one row of the append-only payment ledger. Rows are
// never updated or deleted after insert; the current state of a user is
// the row with the greatest TransTimestamp.
type Transaction struct {
	ID             int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	LineUserID     string            `gorm:"index;not null" json:"line_user_id"`
	MessageID      string            `gorm:"not null" json:"message_id"`
	TransRef       string            `json:"trans_ref"`
	Amount         float64           `gorm:"type:decimal(10,2);not null" json:"amount"`
	RequiredAmount float64           `gorm:"type:decimal(10,2);not null" json:"required_amount"`
	SendingBank    string            `json:"sending_bank"`
	ReceivingBank  string            `json:"receiving_bank"`
	TransTimestamp time.Time         `gorm:"index;not null" json:"trans_timestamp"`
	Status         TransactionStatus `gorm:"type:varchar(5);not null" json:"status"`
	RawPayload     datatypes.JSON    `json:"-"`
	CreatedAt      time.Time         `gorm:"default:now()" json:"created_at"`
}

func (Transaction) TableName() string {
	return "line_user_transactions"
}
