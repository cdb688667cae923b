package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/app/service/activity"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/internal/platform/paypal"
	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/tool"
	"github.com/bizadvisor/advisor/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Subscription{},
		&models.Plan{},
		&models.ActivityLog{},
		&models.Notification{},
	))

	cfg := &config.Config{}
	cfg.PayPal.CheckoutBaseURL = "https://www.paypal.com/webapps/billing/plans/subscribe"
	log := zap.NewNop().Sugar()
	svc := NewService(cfg, log, db, paypal.NewClient(cfg), activity.NewService(db, log))
	return svc, db
}

func seedPlan(t *testing.T, db *gorm.DB) *models.Plan {
	t.Helper()
	p := &models.Plan{
		ID:                tool.GenerateUUIDV7(),
		NameEN:            "Growth",
		NameAR:            "نمو",
		Price:             49,
		Credits:           10,
		TokensPerQuestion: 1800,
		BillingCycle:      types.BillingCycleMonthly,
		PayPalPlanID:      "P-GROWTH",
		IsActive:          true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedSubscription(t *testing.T, db *gorm.DB, status types.SubscriptionStatus, total, used int) *models.Subscription {
	t.Helper()
	sub := &models.Subscription{
		ID:                tool.GenerateUUIDV7(),
		UserEmail:         "user@example.com",
		PlanID:            tool.GenerateUUIDV7(),
		PlanName:          "Growth",
		CreditsTotal:      total,
		CreditsUsed:       used,
		TokensPerQuestion: 1800,
		StartDate:         time.Now(),
		EndDate:           time.Now().Add(30 * 24 * time.Hour),
		Status:            status,
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func testUser() *types.UserInfo {
	return &types.UserInfo{Email: "user@example.com", FullName: "Jamie Doe", Role: types.RoleUser}
}

func TestInitiate_CreatesPendingWithHandoff(t *testing.T) {
	svc, db := newTestService(t)
	plan := seedPlan(t, db)

	res, err := svc.Initiate(context.Background(), testUser(), plan.ID)
	require.NoError(t, err)

	sub := res.Subscription
	assert.Equal(t, types.SubscriptionStatusPending, sub.Status)
	assert.Equal(t, 10, sub.CreditsTotal)
	assert.Equal(t, 0, sub.CreditsUsed)
	assert.Equal(t, plan.ID, sub.PlanID)
	assert.WithinDuration(t, sub.StartDate.AddDate(0, 0, 30), sub.EndDate, time.Second)

	require.NotNil(t, res.Handoff)
	assert.Equal(t, "P-GROWTH", res.Handoff.PlanID)
	assert.Contains(t, res.Handoff.ApprovalURL, "plan_id=P-GROWTH")
}

func TestInitiate_RejectsWhileOutstanding(t *testing.T) {
	svc, db := newTestService(t)
	plan := seedPlan(t, db)

	first, err := svc.Initiate(context.Background(), testUser(), plan.ID)
	require.NoError(t, err)

	// second checkout while the first is still pending
	_, err = svc.Initiate(context.Background(), testUser(), plan.ID)
	require.ErrorIs(t, err, ErrActiveSubscriptionExists)

	// still rejected once the first is confirmed active
	_, err = svc.Confirm(context.Background(), first.Subscription.ID)
	require.NoError(t, err)
	_, err = svc.Initiate(context.Background(), testUser(), plan.ID)
	require.ErrorIs(t, err, ErrActiveSubscriptionExists)

	// the rejections created nothing
	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInitiate_AllowedAfterExpiry(t *testing.T) {
	svc, db := newTestService(t)
	plan := seedPlan(t, db)

	expired := seedSubscription(t, db, types.SubscriptionStatusActive, 10, 10)
	expired.EndDate = time.Now().Add(-time.Hour)
	require.NoError(t, db.Save(expired).Error)

	_, err := svc.Initiate(context.Background(), testUser(), plan.ID)
	require.NoError(t, err)
}

func TestInitiate_PlanNotFound(t *testing.T) {
	svc, db := newTestService(t)
	plan := seedPlan(t, db)
	require.NoError(t, db.Model(plan).Update("is_active", false).Error)

	_, err := svc.Initiate(context.Background(), testUser(), "no-such-plan")
	require.ErrorIs(t, err, ErrPlanNotFound)

	// inactive plans are not purchasable either
	_, err = svc.Initiate(context.Background(), testUser(), plan.ID)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestConfirm_ActivatesAndResetsLedger(t *testing.T) {
	svc, db := newTestService(t)
	sub := seedSubscription(t, db, types.SubscriptionStatusPending, 10, 4)

	got, err := svc.Confirm(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SubscriptionStatusActive, got.Status)
	assert.Equal(t, 0, got.CreditsUsed)
}

func TestConfirm_RequiresPending(t *testing.T) {
	svc, db := newTestService(t)

	for _, status := range []types.SubscriptionStatus{
		types.SubscriptionStatusActive,
		types.SubscriptionStatusCancelled,
		types.SubscriptionStatusExpired,
	} {
		sub := seedSubscription(t, db, status, 10, 0)
		_, err := svc.Confirm(context.Background(), sub.ID)
		require.ErrorIs(t, err, ErrNotPending, "status %s", status)
	}

	_, err := svc.Confirm(context.Background(), "no-such-id")
	require.ErrorIs(t, err, ErrNoSubscription)
}

func TestCancel_PendingOnly(t *testing.T) {
	svc, db := newTestService(t)
	sub := seedSubscription(t, db, types.SubscriptionStatusPending, 10, 0)

	require.NoError(t, svc.Cancel(context.Background(), sub.UserEmail))

	var got models.Subscription
	require.NoError(t, db.First(&got, "id = ?", sub.ID).Error)
	assert.Equal(t, types.SubscriptionStatusCancelled, got.Status)

	// nothing pending left to cancel
	require.ErrorIs(t, svc.Cancel(context.Background(), sub.UserEmail), ErrNotPending)
}

func TestDebitTx_ConditionalUpdate(t *testing.T) {
	svc, db := newTestService(t)

	short := seedSubscription(t, db, types.SubscriptionStatusActive, 10, 9)
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.DebitTx(context.Background(), tx, short.ID, models.QuestionCost)
	})
	require.ErrorIs(t, err, ErrInsufficientCredits)

	var got models.Subscription
	require.NoError(t, db.First(&got, "id = ?", short.ID).Error)
	assert.Equal(t, 9, got.CreditsUsed)

	ok := seedSubscription(t, db, types.SubscriptionStatusActive, 10, 8)
	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.DebitTx(context.Background(), tx, ok.ID, models.QuestionCost)
	})
	require.NoError(t, err)
	// reset so the previous lookup's primary key is not added as a condition
	got = models.Subscription{}
	require.NoError(t, db.First(&got, "id = ?", ok.ID).Error)
	assert.Equal(t, 10, got.CreditsUsed)
}

func TestDebitTx_RequiresActiveStatus(t *testing.T) {
	svc, db := newTestService(t)
	sub := seedSubscription(t, db, types.SubscriptionStatusPending, 10, 0)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.DebitTx(context.Background(), tx, sub.ID, models.QuestionCost)
	})
	require.ErrorIs(t, err, ErrInsufficientCredits)
}
