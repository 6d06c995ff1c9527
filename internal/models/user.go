package models

import "time"

// User mirrors one LINE account that has ever messaged the channel.
// Created on the first inbound event, refreshed on every later one,
// never deleted.
type User struct {
	BaseModel
	LineUserID           string     `gorm:"uniqueIndex;not null" json:"line_user_id"`
	DisplayName          string     `json:"display_name"`
	PictureURL           string     `json:"picture_url"`
	StatusMessage        string     `json:"status_message"`
	Language             string     `json:"language"`
	LastMessage          string     `json:"last_message"`
	LastMessageTimestamp *time.Time `json:"last_message_timestamp"`

	// Relations
	PaymentConfig *PaymentConfig `gorm:"foreignKey:LineUserID;references:LineUserID" json:"payment_config,omitempty"`
	Transactions  []Transaction  `gorm:"foreignKey:LineUserID;references:LineUserID" json:"-"`
	SlipImages    []SlipImage    `gorm:"foreignKey:LineUserID;references:LineUserID" json:"-"`
}
