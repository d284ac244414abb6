package repository

import (
	"context"
	"time"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PlatformRepository interface {
	Create(ctx context.Context, data *entity.Platform) error
	Get(ctx context.Context) (*entity.Platform, error)
	Update(ctx context.Context, updates map[string]any) error
	Increase(ctx context.Context, column string, amount uint64) error
	Decrease(ctx context.Context, column string, amount uint64) error
	CheckAndSetAdminAction(ctx context.Context, now time.Time, minElapsed time.Duration) error
}

type platformRepository struct{}

func NewPlatformRepository() *platformRepository {
	return &platformRepository{}
}

func (r *platformRepository) Create(ctx context.Context, data *entity.Platform) error {
	data.ID = entity.PlatformID
	return xcontext.DB(ctx).Create(data).Error
}

func (r *platformRepository) Get(ctx context.Context) (*entity.Platform, error) {
	var result entity.Platform
	err := xcontext.DB(ctx).Take(&result, "id=?", entity.PlatformID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *platformRepository) Update(ctx context.Context, updates map[string]any) error {
	return xcontext.DB(ctx).
		Model(&entity.Platform{}).
		Where("id=?", entity.PlatformID).
		Updates(updates).Error
}

// Increase bumps a counter column in place. Concurrent operations each add
// their own delta instead of writing back a stale absolute value.
func (r *platformRepository) Increase(ctx context.Context, column string, amount uint64) error {
	return xcontext.DB(ctx).
		Model(&entity.Platform{}).
		Where("id=?", entity.PlatformID).
		Update(column, gorm.Expr(column+" + ?", amount)).Error
}

// Decrease lowers a counter column in place, flooring at zero.
func (r *platformRepository) Decrease(ctx context.Context, column string, amount uint64) error {
	return xcontext.DB(ctx).
		Model(&entity.Platform{}).
		Where("id=?", entity.PlatformID).
		Update(column, gorm.Expr(
			"CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", amount, amount)).Error
}

// CheckAndSetAdminAction advances last_admin_action_at only if at least
// minElapsed has passed since the previous privileged action. A zero affected
// row count means the cooldown has not elapsed yet.
func (r *platformRepository) CheckAndSetAdminAction(
	ctx context.Context, now time.Time, minElapsed time.Duration,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Platform{}).
		Where("id=? AND last_admin_action_at <= ?", entity.PlatformID, now.Add(-minElapsed)).
		Update("last_admin_action_at", now)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
