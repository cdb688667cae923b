package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/bizadvisor/advisor/pkg/types"
)

// Plan is read-only reference data from the relay's perspective; mutations go
// through the admin surface only.
type Plan struct {
	ID                string                          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	NameEN            string                          `gorm:"column:name_en;type:varchar(128);not null" json:"name_en"`
	NameAR            string                          `gorm:"column:name_ar;type:varchar(128);not null" json:"name_ar"`
	Price             float64                         `gorm:"column:price;not null" json:"price"`
	Credits           int                             `gorm:"column:credits;not null" json:"credits"`
	TokensPerQuestion int                             `gorm:"column:tokens_per_question;not null" json:"tokens_per_question"`
	BillingCycle      types.BillingCycle              `gorm:"column:billing_cycle;type:varchar(16);not null" json:"billing_cycle"`
	FeaturesEN        datatypes.JSONType[[]string]    `gorm:"column:features_en;type:jsonb;default:'[]'" json:"features_en"`
	FeaturesAR        datatypes.JSONType[[]string]    `gorm:"column:features_ar;type:jsonb;default:'[]'" json:"features_ar"`
	PayPalPlanID      string                          `gorm:"column:paypal_plan_id;type:varchar(128)" json:"paypal_plan_id"`
	IsActive          bool                            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DisplayOrder      int                             `gorm:"column:display_order;not null;default:0" json:"order"`
	CreatedAt         time.Time                       `json:"created_at"`
	UpdatedAt         time.Time                       `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plan"
}
