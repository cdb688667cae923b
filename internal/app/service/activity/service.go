// Package activity writes audit-log entries and user notifications. Both are
// collaborator writes: recorded asynchronously, failures logged and never
// surfaced to the triggering call.
package activity

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/pkg/logctx"
	"github.com/bizadvisor/advisor/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Record writes an audit-log entry asynchronously.
func (s *Service) Record(ctx context.Context, email, action string, detail map[string]any) {
	entry := &models.ActivityLog{
		ID:        tool.GenerateUUIDV7(),
		UserEmail: email,
		Action:    action,
		Detail:    datatypes.JSONMap(detail),
	}
	go func() {
		if err := s.db.Create(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save activity log: %v", err)
		}
	}()
}

// Notify writes a user-facing notification asynchronously.
func (s *Service) Notify(ctx context.Context, email, title, body string) {
	n := &models.Notification{
		ID:        tool.GenerateUUIDV7(),
		UserEmail: email,
		Title:     title,
		Body:      body,
	}
	go func() {
		if err := s.db.Create(n).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save notification: %v", err)
		}
	}()
}

// ListLogs returns audit entries for the admin surface, newest first.
func (s *Service) ListLogs(ctx context.Context, from, size int) ([]*models.ActivityLog, int64, error) {
	if size <= 0 {
		size = 50
	}
	if from < 0 {
		from = 0
	}

	q := s.db.WithContext(ctx).Model(&models.ActivityLog{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.ActivityLog
	if err := q.Order("created_at desc").Offset(from).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListNotifications returns the caller's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, email string) ([]*models.Notification, error) {
	var rows []*models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
