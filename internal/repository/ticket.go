package repository

import (
	"context"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(ctx context.Context, data *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	GetLastByRaffleAndOwner(ctx context.Context, raffleID uint64, owner string) (*entity.Ticket, error)
	CountByRaffleAndOwner(ctx context.Context, raffleID uint64, owner string) (uint64, error)
	GetListByRaffle(ctx context.Context, raffleID uint64) ([]entity.Ticket, error)
	AddQuantity(ctx context.Context, id string, quantity uint64) error
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, data *entity.Ticket) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	var result entity.Ticket
	err := xcontext.DB(ctx).Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetLastByRaffleAndOwner returns the owner's block with the highest start
// number, the only block a new purchase may extend.
func (r *ticketRepository) GetLastByRaffleAndOwner(
	ctx context.Context, raffleID uint64, owner string,
) (*entity.Ticket, error) {
	var result entity.Ticket
	err := xcontext.DB(ctx).
		Where("raffle_id=? AND owner=?", raffleID, owner).
		Order("start_number desc").
		First(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// CountByRaffleAndOwner sums the owner's ticket quantity over all blocks.
func (r *ticketRepository) CountByRaffleAndOwner(
	ctx context.Context, raffleID uint64, owner string,
) (uint64, error) {
	var total uint64
	err := xcontext.DB(ctx).
		Model(&entity.Ticket{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("raffle_id=? AND owner=?", raffleID, owner).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *ticketRepository) GetListByRaffle(ctx context.Context, raffleID uint64) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).
		Where("raffle_id=?", raffleID).
		Order("start_number asc").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) AddQuantity(ctx context.Context, id string, quantity uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Ticket{}).
		Where("id=?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
