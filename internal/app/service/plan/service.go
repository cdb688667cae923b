// Package plan serves the read-only plan catalogue and its admin mutations.
package plan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/pkg/tool"
)

var ErrPlanNotFound = errors.New("plan not found")

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// ListActive returns plans shown to users, display order ascending.
func (s *Service) ListActive(ctx context.Context) ([]*models.Plan, error) {
	var plans []*models.Plan
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order asc").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// ListAll returns every plan for the admin surface.
func (s *Service) ListAll(ctx context.Context) ([]*models.Plan, error) {
	var plans []*models.Plan
	if err := s.db.WithContext(ctx).
		Order("display_order asc").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// Create inserts a new plan; the id is assigned here.
func (s *Service) Create(ctx context.Context, p *models.Plan) (*models.Plan, error) {
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return p, nil
}

// Update overwrites an existing plan's fields.
func (s *Service) Update(ctx context.Context, p *models.Plan) (*models.Plan, error) {
	var existing models.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", p.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	p.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return p, nil
}

// Deactivate hides a plan from users without deleting subscription history.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Plan{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate plan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
