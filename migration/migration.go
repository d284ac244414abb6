// Package migration prepares the database schema and seed rows. Steps are
// versioned so a deployment can re-run a single step after a partial failure.
package migration

import (
	"context"
	"fmt"
	"sort"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

var Migrators = map[string]func(context.Context) error{
	"0000": migrate0000,
	"0001": migrate0001,
}

// Migrate runs every step in version order.
func Migrate(ctx context.Context) error {
	versions := make([]string, 0, len(Migrators))
	for version := range Migrators {
		versions = append(versions, version)
	}
	sort.Strings(versions)

	for _, version := range versions {
		if err := Migrators[version](ctx); err != nil {
			return fmt.Errorf("migration %s: %w", version, err)
		}

		xcontext.Logger(ctx).Infof("Applied migration %s", version)
	}

	return nil
}

// migrate0000 creates or updates every table.
func migrate0000(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}

// migrate0001 ensures the platform treasury ledger account exists.
func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.VaultAccount{Address: entity.PlatformTreasuryKey}).Error
}
