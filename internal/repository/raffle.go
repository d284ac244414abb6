package repository

import (
	"context"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RaffleRepository interface {
	Create(ctx context.Context, data *entity.Raffle) error
	GetByID(ctx context.Context, id uint64) (*entity.Raffle, error)
	Update(ctx context.Context, id uint64, updates map[string]any) error
	CheckAndSellTickets(ctx context.Context, id uint64, quantity uint64) error
	AddFeesCollected(ctx context.Context, id uint64, amount uint64) error
	MarkDrawn(ctx context.Context, id uint64, winningTicket uint64, height uint64) error
	CheckAndSetWinner(ctx context.Context, id uint64, winner string) error
	BeginClaim(ctx context.Context, id uint64) error
	EndClaim(ctx context.Context, id uint64) error
	CheckAndClaimPrize(ctx context.Context, id uint64) error
}

type raffleRepository struct{}

func NewRaffleRepository() *raffleRepository {
	return &raffleRepository{}
}

func (r *raffleRepository) Create(ctx context.Context, data *entity.Raffle) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *raffleRepository) GetByID(ctx context.Context, id uint64) (*entity.Raffle, error) {
	var result entity.Raffle
	err := xcontext.DB(ctx).Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) Update(ctx context.Context, id uint64, updates map[string]any) error {
	return xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=?", id).
		Updates(updates).Error
}

// CheckAndSellTickets reserves quantity tickets in a single conditional
// update. The WHERE clause rejects the sale when it would exceed the supply
// or when the raffle is already drawn, so concurrent purchases can never
// oversell.
func (r *raffleRepository) CheckAndSellTickets(ctx context.Context, id uint64, quantity uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=? AND is_drawn=false AND tickets_sold + ? <= max_tickets", id, quantity).
		Update("tickets_sold", gorm.Expr("tickets_sold + ?", quantity))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) AddFeesCollected(ctx context.Context, id uint64, amount uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=?", id).
		Update("fees_collected", gorm.Expr("fees_collected + ?", amount))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// MarkDrawn closes the raffle with its winning ticket. The draw height is
// recorded for the audit trail unless a pending request already set it.
func (r *raffleRepository) MarkDrawn(ctx context.Context, id uint64, winningTicket uint64, height uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=? AND is_drawn=false", id).
		Updates(map[string]any{
			"is_drawn":       true,
			"winning_ticket": winningTicket,
			"draw_requested_height": gorm.Expr(
				"CASE WHEN draw_requested_height = 0 THEN ? ELSE draw_requested_height END", height),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) CheckAndSetWinner(ctx context.Context, id uint64, winner string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=? AND winner IS NULL", id).
		Update("winner", winner)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// BeginClaim flips the claiming flag from false to true. A second caller
// racing the first sees zero affected rows and is rejected.
func (r *raffleRepository) BeginClaim(ctx context.Context, id uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=? AND is_claiming=false", id).
		Update("is_claiming", true)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *raffleRepository) EndClaim(ctx context.Context, id uint64) error {
	return xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=?", id).
		Update("is_claiming", false).Error
}

func (r *raffleRepository) CheckAndClaimPrize(ctx context.Context, id uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Raffle{}).
		Where("id=? AND is_claimed=false", id).
		Update("is_claimed", true)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
