package common

import "time"

// Protocol limits. Amounts are denominated in the smallest token unit.
const (
	MaxTicketsPerWallet uint64 = 100
	MaxTicketsPerRaffle uint64 = 10_000

	MinRaffleDuration = time.Hour
	MaxRaffleDuration = 30 * 24 * time.Hour

	MinPrizeAmount uint64 = 100_000_000
	MaxPrizeAmount uint64 = 1_000_000_000_000

	MinTicketPrice uint64 = 1_000_000
	MaxTicketPrice uint64 = 10_000_000_000

	DefaultPlatformFeeBps uint16 = 300
	MaxPlatformFeeBps     uint16 = 1_000

	PurchaseRateLimit = 30 * time.Second
	AdminRateLimit    = 60 * time.Second
	AdminTimelock     = 24 * time.Hour
	EmergencyTimelock = time.Hour
	VrfRequestTimeout = 5 * time.Minute

	MinBlockConfirmations uint64 = 32
)
