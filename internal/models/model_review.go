package models

import "time"

// Review is user feedback shown on the public site.
type Review struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserEmail string    `gorm:"column:user_email;type:varchar(255);not null;index" json:"user_email"`
	UserName  string    `gorm:"column:user_name;type:varchar(128)" json:"user_name"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "review"
}
