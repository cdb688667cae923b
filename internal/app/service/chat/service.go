// Package chat is the credit-coupled ask path: verified caller, active
// subscription, relay upstream, then debit and persist the exchange in one
// transaction. A failed upstream call never consumes credits.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/app/service/analyze"
	"github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/pkg/logctx"
	"github.com/bizadvisor/advisor/pkg/tool"
	"github.com/bizadvisor/advisor/pkg/types"
)

type AskRequest struct {
	Prompt         string             `json:"prompt"`
	Type           types.AnalysisType `json:"type"`
	Language       types.Language     `json:"language"`
	ConversationID string             `json:"conversation_id"`
}

type AskResult struct {
	ConversationID string             `json:"conversation_id"`
	Model          string             `json:"model"`
	Type           types.AnalysisType `json:"type"`
	Content        string             `json:"content"`
	Usage          *types.TokenUsage  `json:"usage"`
	QuestionsLeft  int                `json:"questions_left"`
}

type Service struct {
	log      *zap.SugaredLogger
	db       *gorm.DB
	analyzer analyze.Analyzer
	subs     *subscription.Service
}

func NewService(log *zap.SugaredLogger, db *gorm.DB, analyzer analyze.Analyzer, subs *subscription.Service) *Service {
	return &Service{log: log, db: db, analyzer: analyzer, subs: subs}
}

// Ask relays one question for a subscribed user. The ledger check runs before
// the upstream call; the debit runs after it succeeds, atomically with the
// message persistence.
func (s *Service) Ask(ctx context.Context, user *types.UserInfo, req *AskRequest) (*AskResult, error) {
	sub, err := s.subs.Current(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if !sub.Valid() {
		return nil, subscription.ErrNoActiveSubscription
	}
	if !sub.CanAsk() {
		return nil, subscription.ErrInsufficientCredits
	}

	res, err := s.analyzer.Analyze(ctx, &analyze.Request{
		Prompt:    req.Prompt,
		Type:      req.Type,
		Language:  req.Language,
		MaxTokens: sub.TokensPerQuestion,
	})
	if err != nil {
		return nil, err
	}

	convID := req.ConversationID
	if convID == "" {
		convID = tool.GenerateUUIDV7()
	}

	tokensUsed := 0
	if res.Usage != nil {
		tokensUsed = res.Usage.TotalTokens
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.subs.DebitTx(ctx, tx, sub.ID, models.QuestionCost); err != nil {
			return err
		}
		messages := []*models.ConversationMessage{
			{
				ID:             tool.GenerateUUIDV7(),
				ConversationID: convID,
				UserEmail:      user.Email,
				Role:           "user",
				Content:        req.Prompt,
				AnalysisType:   res.Type,
				Model:          res.Model,
			},
			{
				ID:             tool.GenerateUUIDV7(),
				ConversationID: convID,
				UserEmail:      user.Email,
				Role:           "assistant",
				Content:        res.Content,
				AnalysisType:   res.Type,
				Model:          res.Model,
				TokensUsed:     tokensUsed,
			},
		}
		return tx.Create(messages).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to debit and persist exchange: %w", err)
	}

	sub.CreditsUsed += models.QuestionCost

	logctx.FromCtx(ctx, s.log).Infow("question answered",
		"user_email", user.Email, "conversation_id", convID,
		"type", res.Type, "questions_left", sub.QuestionsLeft())

	return &AskResult{
		ConversationID: convID,
		Model:          res.Model,
		Type:           res.Type,
		Content:        res.Content,
		Usage:          res.Usage,
		QuestionsLeft:  sub.QuestionsLeft(),
	}, nil
}

// History returns the caller's messages, optionally scoped to one
// conversation, oldest first.
func (s *Service) History(ctx context.Context, email, conversationID string) ([]*models.ConversationMessage, error) {
	q := s.db.WithContext(ctx).Where("user_email = ?", email)
	if conversationID != "" {
		q = q.Where("conversation_id = ?", conversationID)
	}
	var rows []*models.ConversationMessage
	if err := q.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return rows, nil
}
