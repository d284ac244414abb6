package repository

import (
	"context"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
)

type SecurityConfigRepository interface {
	Create(ctx context.Context, data *entity.SecurityConfig) error
	Get(ctx context.Context) (*entity.SecurityConfig, error)
	Update(ctx context.Context, updates map[string]any) error
}

type securityConfigRepository struct{}

func NewSecurityConfigRepository() *securityConfigRepository {
	return &securityConfigRepository{}
}

func (r *securityConfigRepository) Create(ctx context.Context, data *entity.SecurityConfig) error {
	data.ID = entity.SecurityConfigID
	return xcontext.DB(ctx).Create(data).Error
}

func (r *securityConfigRepository) Get(ctx context.Context) (*entity.SecurityConfig, error) {
	var result entity.SecurityConfig
	err := xcontext.DB(ctx).Take(&result, "id=?", entity.SecurityConfigID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *securityConfigRepository) Update(ctx context.Context, updates map[string]any) error {
	return xcontext.DB(ctx).
		Model(&entity.SecurityConfig{}).
		Where("id=?", entity.SecurityConfigID).
		Updates(updates).Error
}
