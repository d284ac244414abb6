package repository

import (
	"context"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VaultRepository is the internal fund ledger. Every balance change happens
// through Deposit or Transfer so funds are conserved across accounts.
type VaultRepository interface {
	Deposit(ctx context.Context, address string, amount uint64) error
	Transfer(ctx context.Context, from, to string, amount uint64) error
	Balance(ctx context.Context, address string) (uint64, error)
}

type vaultRepository struct{}

func NewVaultRepository() *vaultRepository {
	return &vaultRepository{}
}

func (r *vaultRepository) Deposit(ctx context.Context, address string, amount uint64) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "address"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance": gorm.Expr("balance + ?", amount),
			}),
		}).
		Create(&entity.VaultAccount{Address: address, Balance: amount}).Error
}

// Transfer moves amount between two accounts. The debit is conditional on a
// sufficient balance, so an overdraft surfaces as gorm.ErrRecordNotFound and
// the credit is never applied.
func (r *vaultRepository) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).
		Model(&entity.VaultAccount{}).
		Where("address=? AND balance >= ?", from, amount).
		Update("balance", gorm.Expr("balance - ?", amount))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return r.Deposit(ctx, to, amount)
}

func (r *vaultRepository) Balance(ctx context.Context, address string) (uint64, error) {
	var result entity.VaultAccount
	err := xcontext.DB(ctx).Take(&result, "address=?", address).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}

	return result.Balance, nil
}
