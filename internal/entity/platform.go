package entity

import (
	"database/sql"
	"time"
)

// PlatformID is the fixed key of the platform singleton row.
const PlatformID = "platform"

// Platform is the process-wide governance state. It is created once at
// bootstrap and mutated only by governance operations.
type Platform struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Admin string

	// PendingAdmin is set while a 2-step admin transfer is in flight.
	// Invariant: PendingAdmin.Valid == !AdminTransferInitiatedAt.IsZero().
	PendingAdmin             sql.NullString
	AdminTransferInitiatedAt time.Time

	TotalRaffles       uint64
	TotalFeesCollected uint64
	TotalPrizesPaid    uint64

	IsPaused     bool
	LastPausedAt time.Time
	PausedBy     sql.NullString

	FeeBps uint16

	BlacklistCount uint64

	// LastAdminActionAt throttles privileged operations.
	LastAdminActionAt time.Time
}

func (p *Platform) HasPendingTransfer() bool {
	return p.PendingAdmin.Valid
}

// CanCompleteTransfer reports whether the transfer timelock has elapsed.
func (p *Platform) CanCompleteTransfer(now time.Time, timelock time.Duration) bool {
	if !p.PendingAdmin.Valid {
		return false
	}

	return now.Sub(p.AdminTransferInitiatedAt) >= timelock
}
