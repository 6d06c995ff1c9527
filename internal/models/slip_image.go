package models

import "time"

// SlipImage records where the bytes of one submitted slip ended up.
// Written before verification so a rejected slip still leaves a trace.
type SlipImage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LineUserID string    `gorm:"index;not null" json:"line_user_id"`
	MessageID  string    `gorm:"uniqueIndex;not null" json:"message_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	CreatedAt  time.Time `gorm:"default:now()" json:"created_at"`
}

func (SlipImage) TableName() string {
	return "line_user_images"
}
