package models

import (
	"time"

	"github.com/bizadvisor/advisor/pkg/types"
)

// QuestionCost is how many credits one answered question consumes.
const QuestionCost = 2

// Subscription stores one user's plan purchase and its credit ledger.
// Use Valid() to determine whether the subscription currently grants access;
// expiry is a read-time predicate, never a stored mutation.
type Subscription struct {
	ID                string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserEmail         string                   `gorm:"column:user_email;type:varchar(255);not null;index" json:"user_email"`
	PlanID            string                   `gorm:"column:plan_id;type:uuid;not null" json:"plan_id"`
	PlanName          string                   `gorm:"column:plan_name;type:varchar(128);not null" json:"plan_name"`
	CreditsTotal      int                      `gorm:"column:credits_total;not null" json:"credits_total"`
	CreditsUsed       int                      `gorm:"column:credits_used;not null;default:0" json:"credits_used"`
	TokensPerQuestion int                      `gorm:"column:tokens_per_question;not null" json:"tokens_per_question"`
	StartDate         time.Time                `gorm:"column:start_date;not null" json:"start_date"`
	EndDate           time.Time                `gorm:"column:end_date;not null" json:"end_date"`
	Status            types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	AmountPaid        float64                  `gorm:"column:amount_paid;not null;default:0" json:"amount_paid"`
	PayPalPlanID      string                   `gorm:"column:paypal_plan_id;type:varchar(128)" json:"paypal_plan_id"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Valid reports whether the subscription grants access right now.
func (s *Subscription) Valid() bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		!s.EndDate.Before(time.Now())
}

// Outstanding reports whether the subscription blocks a new checkout:
// a pending record or a still-valid active one.
func (s *Subscription) Outstanding() bool {
	if s == nil {
		return false
	}
	if s.Status == types.SubscriptionStatusPending {
		return true
	}
	return s.Valid()
}

// EffectiveStatus applies the lazy expiry predicate on read: an active
// subscription past its end date reads as expired without being mutated.
func (s *Subscription) EffectiveStatus() types.SubscriptionStatus {
	if s.Status == types.SubscriptionStatusActive && s.EndDate.Before(time.Now()) {
		return types.SubscriptionStatusExpired
	}
	return s.Status
}

// Available returns the credits not yet consumed.
func (s *Subscription) Available() int {
	if s == nil {
		return 0
	}
	return s.CreditsTotal - s.CreditsUsed
}

// QuestionsLeft projects available credits onto whole questions. Derived on
// every read, never stored.
func (s *Subscription) QuestionsLeft() int {
	return s.Available() / QuestionCost
}

// CanAsk reports whether the ledger covers one more question.
func (s *Subscription) CanAsk() bool {
	return s.Available() >= QuestionCost
}
