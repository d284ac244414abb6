package entity

import (
	"time"

	"github.com/payroll-lab/backend/pkg/enum"
)

type BlacklistReason string

var (
	BotBehavior        = enum.New(BlacklistReason("bot_behavior"))
	FraudulentActivity = enum.New(BlacklistReason("fraudulent_activity"))
	TermsViolation     = enum.New(BlacklistReason("terms_violation"))
	AdminDiscretion    = enum.New(BlacklistReason("admin_discretion"))
)

// BlacklistEntry bars a wallet from purchasing tickets. Entries are kept after
// removal with IsActive=false so the audit trail survives.
type BlacklistEntry struct {
	Wallet    string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BlacklistedAt time.Time
	BlacklistedBy string
	Reason        BlacklistReason
	IsActive      bool
}
