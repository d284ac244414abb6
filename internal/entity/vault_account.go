package entity

import (
	"fmt"
	"time"
)

// PlatformTreasuryKey is the ledger account that accumulates platform fees.
const PlatformTreasuryKey = "platform_treasury"

// VaultAccount is one balance bucket in the internal ledger. Wallets and
// raffle escrows share the same table, distinguished by address prefix.
type VaultAccount struct {
	Address   string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Balance uint64
}

func WalletVaultKey(wallet string) string {
	return "wallet/" + wallet
}

func RaffleVaultKey(raffleID uint64) string {
	return fmt.Sprintf("raffle_vault/%d", raffleID)
}
