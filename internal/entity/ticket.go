package entity

import "time"

// Ticket records one contiguous block of ticket numbers bought in a single
// purchase. A wallet may hold several blocks in the same raffle. A repeat
// purchase extends the wallet's latest block only when that block ends at the
// current sale counter, so blocks always partition [0, ticketsSold) without
// gaps or overlaps.
type Ticket struct {
	Base

	RaffleID uint64 `gorm:"uniqueIndex:idx_ticket_raffle_start;index:idx_ticket_raffle_owner"`
	Raffle   Raffle `gorm:"foreignKey:RaffleID"`

	Owner string `gorm:"index:idx_ticket_raffle_owner"`

	StartNumber uint64 `gorm:"uniqueIndex:idx_ticket_raffle_start"`
	Quantity    uint64

	PurchasedAt time.Time

	// PurchaseTx is an opaque audit reference for the funding transfer.
	PurchaseTx []byte
}

// Contains reports whether n falls inside this ticket block.
func (t *Ticket) Contains(n uint64) bool {
	return n >= t.StartNumber && n < t.StartNumber+t.Quantity
}
