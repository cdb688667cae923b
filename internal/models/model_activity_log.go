package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records audit entries for subscription lifecycle events.
// Written asynchronously; a failed write is logged, never surfaced.
type ActivityLog struct {
	ID        string            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserEmail string            `gorm:"column:user_email;type:varchar(255);not null;index" json:"user_email"`
	Action    string            `gorm:"column:action;type:varchar(64);not null" json:"action"`
	Detail    datatypes.JSONMap `gorm:"column:detail;type:jsonb;default:'{}'" json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_log"
}
