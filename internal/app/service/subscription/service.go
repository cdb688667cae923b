// Package subscription models the plan lifecycle: pending on checkout
// initiation, active on out-of-band confirmation, expired by read-time
// predicate, cancelled on abandoned checkout. It also owns the credit
// ledger's atomic debit.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/app/service/activity"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/internal/platform/paypal"
	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/logctx"
	"github.com/bizadvisor/advisor/pkg/tool"
	"github.com/bizadvisor/advisor/pkg/types"
)

type Service struct {
	cfg *config.Config
	log *zap.SugaredLogger
	db  *gorm.DB
	pay *paypal.Client
	act *activity.Service
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, db *gorm.DB, pay *paypal.Client, act *activity.Service) *Service {
	return &Service{cfg: cfg, log: log, db: db, pay: pay, act: act}
}

// Current returns the user's latest subscription record. Expiry is applied by
// the caller through EffectiveStatus; nothing is mutated on read.
func (s *Service) Current(ctx context.Context, email string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at desc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

// CheckoutResult pairs the created pending subscription with the external
// payment handoff the client redirects to.
type CheckoutResult struct {
	Subscription *models.Subscription `json:"subscription"`
	Handoff      *paypal.Handoff      `json:"handoff"`
}

// Initiate starts checkout: refuses while a pending or active unexpired
// subscription is outstanding, otherwise creates a pending record whose term
// is derived from the plan's billing cycle.
func (s *Service) Initiate(ctx context.Context, user *types.UserInfo, planID string) (*CheckoutResult, error) {
	var plan models.Plan
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", planID, true).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	var sub *models.Subscription
	var handoff *paypal.Handoff
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []*models.Subscription
		if err := tx.Where("user_email = ? AND status IN ?", user.Email,
			[]types.SubscriptionStatus{types.SubscriptionStatusPending, types.SubscriptionStatusActive}).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to check outstanding subscriptions: %w", err)
		}
		for _, e := range existing {
			if e.Outstanding() {
				return ErrActiveSubscriptionExists
			}
		}

		// Handoff failure rolls the pending record back.
		var err error
		handoff, err = s.pay.CheckoutHandoff(plan.PayPalPlanID)
		if err != nil {
			return fmt.Errorf("failed to build payment handoff: %w", err)
		}

		now := time.Now()
		sub = &models.Subscription{
			ID:                tool.GenerateUUIDV7(),
			UserEmail:         user.Email,
			PlanID:            plan.ID,
			PlanName:          plan.NameEN,
			CreditsTotal:      plan.Credits,
			CreditsUsed:       0,
			TokensPerQuestion: plan.TokensPerQuestion,
			StartDate:         now,
			EndDate:           now.AddDate(0, 0, plan.BillingCycle.Days()),
			Status:            types.SubscriptionStatusPending,
			AmountPaid:        plan.Price,
			PayPalPlanID:      plan.PayPalPlanID,
		}
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("checkout initiated",
		"user_email", user.Email, "plan_id", plan.ID, "subscription_id", sub.ID)

	// Collaborator writes, not part of the state machine's own invariants.
	s.act.Record(ctx, user.Email, "subscription_checkout_initiated", map[string]any{
		"subscription_id": sub.ID,
		"plan_id":         plan.ID,
		"plan_name":       plan.NameEN,
	})
	s.act.Notify(ctx, user.Email, "Checkout started",
		fmt.Sprintf("Complete your %s subscription payment to activate it.", plan.NameEN))

	return &CheckoutResult{Subscription: sub, Handoff: handoff}, nil
}

// Confirm applies the out-of-band payment confirmation: pending becomes
// active and the ledger resets.
func (s *Service) Confirm(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", subscriptionID).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoSubscription
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if sub.Status != types.SubscriptionStatusPending {
			return ErrNotPending
		}
		sub.Status = types.SubscriptionStatusActive
		sub.CreditsUsed = 0
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription activated",
		"user_email", sub.UserEmail, "subscription_id", sub.ID)

	s.act.Record(ctx, sub.UserEmail, "subscription_activated", map[string]any{
		"subscription_id": sub.ID,
		"plan_id":         sub.PlanID,
	})
	s.act.Notify(ctx, sub.UserEmail, "Subscription active",
		fmt.Sprintf("Your %s subscription is now active.", sub.PlanName))

	return &sub, nil
}

// Cancel marks the user's pending subscription as the alternate terminal
// state for an abandoned checkout.
func (s *Service) Cancel(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub models.Subscription
		if err := tx.Where("user_email = ? AND status = ?", email, types.SubscriptionStatusPending).
			Order("created_at desc").
			First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotPending
			}
			return fmt.Errorf("failed to load pending subscription: %w", err)
		}
		sub.Status = types.SubscriptionStatusCancelled
		return tx.Save(&sub).Error
	})
	if err != nil {
		return err
	}

	s.act.Record(ctx, email, "subscription_checkout_cancelled", nil)
	return nil
}

// DebitTx consumes credits inside the caller's transaction. The check and
// the increment are one conditional UPDATE so two concurrent debits cannot
// both pass the balance check.
func (s *Service) DebitTx(ctx context.Context, tx *gorm.DB, subscriptionID string, cost int) error {
	if cost <= 0 {
		cost = models.QuestionCost
	}
	res := tx.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND status = ? AND credits_total - credits_used >= ?",
			subscriptionID, types.SubscriptionStatusActive, cost).
		UpdateColumn("credits_used", gorm.Expr("credits_used + ?", cost))
	if res.Error != nil {
		return fmt.Errorf("failed to debit credits: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

// Scan lists subscriptions for the admin surface, newest first.
func (s *Service) Scan(ctx context.Context, from, size int) ([]*models.Subscription, int64, error) {
	if size <= 0 {
		size = 20
	}
	if from < 0 {
		from = 0
	}

	q := s.db.WithContext(ctx).Model(&models.Subscription{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var rows []*models.Subscription
	if err := q.Order("created_at desc").Offset(from).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return rows, total, nil
}
