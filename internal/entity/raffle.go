package entity

import (
	"database/sql"
	"time"
)

// Raffle is a single draw with a fixed prize pool and ticket supply.
type Raffle struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Admin string `gorm:"index"`

	PrizeAmount         uint64
	TicketPrice         uint64
	MaxTickets          uint64
	TicketsSold         uint64
	MaxTicketsPerWallet uint64

	EndTime time.Time

	IsFree     bool
	IsDrawn    bool
	IsPaused   bool
	IsClaiming bool
	IsClaimed  bool

	WinningTicket uint64
	Winner        sql.NullString

	// DrawRequestedHeight is the block height recorded when a draw request
	// arrives. Zero means no request yet.
	DrawRequestedHeight uint64
	VrfResult           []byte

	FeesCollected uint64
}

func (r *Raffle) HasEnded(now time.Time) bool {
	return !now.Before(r.EndTime)
}

// IsActive reports whether tickets can still be sold.
func (r *Raffle) IsActive(now time.Time) bool {
	return !r.IsDrawn && !r.IsPaused && !r.HasEnded(now)
}

func (r *Raffle) RemainingTickets() uint64 {
	if r.TicketsSold >= r.MaxTickets {
		return 0
	}

	return r.MaxTickets - r.TicketsSold
}
