package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/pkg/tool"
	"github.com/bizadvisor/advisor/pkg/types"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Create stores a review attributed to the verified caller.
func (s *Service) Create(ctx context.Context, user *types.UserInfo, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	r := &models.Review{
		ID:        tool.GenerateUUIDV7(),
		UserEmail: user.Email,
		UserName:  user.FullName,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return r, nil
}

// List returns recent reviews for the public site, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*models.Review, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []*models.Review
	if err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return rows, nil
}
