package entity

import (
	"context"

	"github.com/payroll-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Platform{},
		&SecurityConfig{},
		&Raffle{},
		&Ticket{},
		&UserStats{},
		&BlacklistEntry{},
		&VaultAccount{},
	)
}
