package models

import "time"

// Notification is a user-facing message shown by the client.
type Notification struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserEmail string    `gorm:"column:user_email;type:varchar(255);not null;index" json:"user_email"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Body      string    `gorm:"column:body;type:text" json:"body"`
	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
