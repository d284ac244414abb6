package repository

import (
	"context"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BlacklistRepository interface {
	Get(ctx context.Context, wallet string) (*entity.BlacklistEntry, error)
	Save(ctx context.Context, data *entity.BlacklistEntry) error
}

type blacklistRepository struct{}

func NewBlacklistRepository() *blacklistRepository {
	return &blacklistRepository{}
}

func (r *blacklistRepository) Get(ctx context.Context, wallet string) (*entity.BlacklistEntry, error) {
	var result entity.BlacklistEntry
	err := xcontext.DB(ctx).Take(&result, "wallet=?", wallet).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Save inserts a new entry or replaces an existing one for the same wallet.
func (r *blacklistRepository) Save(ctx context.Context, data *entity.BlacklistEntry) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "wallet"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"blacklisted_at", "blacklisted_by", "reason", "is_active",
			}),
		}).
		Create(data).Error
}
