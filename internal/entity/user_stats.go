package entity

import (
	"database/sql"
	"time"
)

// UserStats aggregates per-wallet purchase history. It backs the rate limiter
// and the anomaly flagging workflow.
type UserStats struct {
	Wallet    string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	LastPurchaseTime time.Time

	TotalTicketsBought  uint64
	TotalSpent          uint64
	TotalWins           uint64
	TotalWinnings       uint64
	RafflesParticipated uint64

	IsFlagged  bool
	FlaggedAt  time.Time
	FlagReason sql.NullString
}

// IsRateLimited reports whether a purchase at now would violate the cooldown.
func (u *UserStats) IsRateLimited(now time.Time, cooldown time.Duration) bool {
	if u.LastPurchaseTime.IsZero() {
		return false
	}

	return now.Sub(u.LastPurchaseTime) < cooldown
}
