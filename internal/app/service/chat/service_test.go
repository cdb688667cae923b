package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/app/service/activity"
	"github.com/bizadvisor/advisor/internal/app/service/analyze"
	"github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/internal/platform/paypal"
	"github.com/bizadvisor/advisor/pkg/config"
	"github.com/bizadvisor/advisor/pkg/tool"
	"github.com/bizadvisor/advisor/pkg/types"
)

type stubAnalyzer struct {
	got    *analyze.Request
	result *analyze.Result
	err    error
	calls  int
}

func (s *stubAnalyzer) Analyze(_ context.Context, req *analyze.Request) (*analyze.Result, error) {
	s.calls++
	s.got = req
	return s.result, s.err
}

func newTestService(t *testing.T, analyzer analyze.Analyzer) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a second connection would see a different in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Subscription{},
		&models.ConversationMessage{},
		&models.ActivityLog{},
		&models.Notification{},
	))

	cfg := &config.Config{}
	log := zap.NewNop().Sugar()
	subs := subscription.NewService(cfg, log, db, paypal.NewClient(cfg), activity.NewService(db, log))
	return NewService(log, db, analyzer, subs), db
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

func TestAsk_DebitsAndPersists(t *testing.T) {
	analyzer := &stubAnalyzer{result: &analyze.Result{
		Model:   "llama3.2:latest",
		Type:    types.AnalysisTypeMarket,
		Content: "the market is growing",
		Usage:   &types.TokenUsage{TotalTokens: 420},
	}}
	svc, db := newTestService(t, analyzer)
	sub := seedSubscription(t, db, types.SubscriptionStatusActive, 10, 0)

	res, err := svc.Ask(context.Background(), testUser(), &AskRequest{
		Prompt: "Analyze my bakery", Type: types.AnalysisTypeMarket,
	})
	require.NoError(t, err)

	assert.Equal(t, "the market is growing", res.Content)
	assert.Equal(t, 4, res.QuestionsLeft)
	assert.NotEmpty(t, res.ConversationID)
	assert.Equal(t, 1800, analyzer.got.MaxTokens)

	var got models.Subscription
	require.NoError(t, db.First(&got, "id = ?", sub.ID).Error)
	assert.Equal(t, models.QuestionCost, got.CreditsUsed)

	var messages []*models.ConversationMessage
	require.NoError(t, db.Find(&messages).Error)
	require.Len(t, messages, 2)
	byRole := map[string]*models.ConversationMessage{}
	for _, m := range messages {
		byRole[m.Role] = m
	}
	require.Contains(t, byRole, "user")
	require.Contains(t, byRole, "assistant")
	assert.Equal(t, "Analyze my bakery", byRole["user"].Content)
	assert.Equal(t, "the market is growing", byRole["assistant"].Content)
	assert.Equal(t, 420, byRole["assistant"].TokensUsed)
	assert.Equal(t, byRole["user"].ConversationID, byRole["assistant"].ConversationID)
}

func TestAsk_UpstreamFailureLeavesLedgerUntouched(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("upstream down")}
	svc, db := newTestService(t, analyzer)
	sub := seedSubscription(t, db, types.SubscriptionStatusActive, 10, 0)

	_, err := svc.Ask(context.Background(), testUser(), &AskRequest{Prompt: "q"})
	require.Error(t, err)

	// no debit and no messages for a failed relay
	var got models.Subscription
	require.NoError(t, db.First(&got, "id = ?", sub.ID).Error)
	assert.Equal(t, 0, got.CreditsUsed)

	var count int64
	require.NoError(t, db.Model(&models.ConversationMessage{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAsk_NoSubscription(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{})

	_, err := svc.Ask(context.Background(), testUser(), &AskRequest{Prompt: "q"})
	require.ErrorIs(t, err, subscription.ErrNoSubscription)
}

func TestAsk_RequiresValidSubscription(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, db := newTestService(t, analyzer)
	seedSubscription(t, db, types.SubscriptionStatusPending, 10, 0)

	_, err := svc.Ask(context.Background(), testUser(), &AskRequest{Prompt: "q"})
	require.ErrorIs(t, err, subscription.ErrNoActiveSubscription)
	assert.Equal(t, 0, analyzer.calls)
}

func TestAsk_InsufficientCreditsBeforeUpstream(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc, db := newTestService(t, analyzer)
	seedSubscription(t, db, types.SubscriptionStatusActive, 10, 9)

	_, err := svc.Ask(context.Background(), testUser(), &AskRequest{Prompt: "q"})
	require.ErrorIs(t, err, subscription.ErrInsufficientCredits)
	assert.Equal(t, 0, analyzer.calls)
}

func TestAsk_ReusesConversationID(t *testing.T) {
	analyzer := &stubAnalyzer{result: &analyze.Result{Content: "ok"}}
	svc, db := newTestService(t, analyzer)
	seedSubscription(t, db, types.SubscriptionStatusActive, 10, 0)

	convID := tool.GenerateUUIDV7()
	res, err := svc.Ask(context.Background(), testUser(), &AskRequest{
		Prompt: "q", ConversationID: convID,
	})
	require.NoError(t, err)
	assert.Equal(t, convID, res.ConversationID)
}
