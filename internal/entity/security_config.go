package entity

import "time"

// SecurityConfigID is the fixed key of the security config singleton row.
const SecurityConfigID = "security"

// SecurityConfig holds the tunable anti-abuse knobs. Like Platform, it is a
// singleton initialized at bootstrap.
type SecurityConfig struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	RateLimitSeconds      int64
	RateLimitingEnabled   bool
	BlacklistEnabled      bool
	VrfRequired           bool
	MinBlockConfirmations uint64
	MaxTicketsPerWallet   uint64

	UpdatedBy string
}
