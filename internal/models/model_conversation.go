package models

import (
	"time"

	"github.com/bizadvisor/advisor/pkg/types"
)

// ConversationMessage persists one side of a chat exchange. The answer row is
// written in the same DB transaction as the credit debit so no partial-debit
// state is observable.
type ConversationMessage struct {
	ID             string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ConversationID string             `gorm:"column:conversation_id;type:uuid;not null;index" json:"conversation_id"`
	UserEmail      string             `gorm:"column:user_email;type:varchar(255);not null;index" json:"user_email"`
	Role           string             `gorm:"column:role;type:varchar(16);not null" json:"role"`
	Content        string             `gorm:"column:content;type:text;not null" json:"content"`
	AnalysisType   types.AnalysisType `gorm:"column:analysis_type;type:varchar(32)" json:"analysis_type"`
	Model          string             `gorm:"column:model;type:varchar(64)" json:"model"`
	TokensUsed     int                `gorm:"column:tokens_used;not null;default:0" json:"tokens_used"`
	CreatedAt      time.Time          `json:"created_at"`
}

func (ConversationMessage) TableName() string {
	return "conversation_message"
}
