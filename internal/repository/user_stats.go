package repository

import (
	"context"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
)

type UserStatsRepository interface {
	Create(ctx context.Context, data *entity.UserStats) error
	Get(ctx context.Context, wallet string) (*entity.UserStats, error)
	Update(ctx context.Context, wallet string, updates map[string]any) error
}

type userStatsRepository struct{}

func NewUserStatsRepository() *userStatsRepository {
	return &userStatsRepository{}
}

func (r *userStatsRepository) Create(ctx context.Context, data *entity.UserStats) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userStatsRepository) Get(ctx context.Context, wallet string) (*entity.UserStats, error) {
	var result entity.UserStats
	err := xcontext.DB(ctx).Take(&result, "wallet=?", wallet).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userStatsRepository) Update(ctx context.Context, wallet string, updates map[string]any) error {
	return xcontext.DB(ctx).
		Model(&entity.UserStats{}).
		Where("wallet=?", wallet).
		Updates(updates).Error
}
