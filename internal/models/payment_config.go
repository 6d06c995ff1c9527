package models

// ManagedAccount is the external system account a payment unlocks.
// Rows are owned by the account-management side; the core only reads
// the username it must pass to the status-toggle API.
type ManagedAccount struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"not null" json:"username"`
	Type     string `json:"type"`
}

func (ManagedAccount) TableName() string {
	return "managed_accounts"
}

// PaymentConfig links a LINE user to the managed account they pay for
// and the monthly amount they owe. Read-only from the core's
// perspective.
type PaymentConfig struct {
	BaseModel
	LineUserID     string  `gorm:"uniqueIndex;not null" json:"line_user_id"`
	RequiredAmount float64 `gorm:"type:decimal(10,2);not null" json:"required_amount"`
	AccountID      int     `gorm:"not null" json:"account_id"`

	Account *ManagedAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (PaymentConfig) TableName() string {
	return "line_user_payment_configs"
}
