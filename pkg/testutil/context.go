package testutil

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/payroll-lab/backend/config"
	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/logger"
	"github.com/payroll-lab/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	// Every in-memory connection gets its own database, so the pool must
	// share one named cache for transactions to see the migrated schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// A single connection keeps concurrent test goroutines queued on the
	// pool instead of tripping sqlite's shared-cache table locks.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Env:      "testing",
		LogLevel: logger.SILENCE,
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(cfg.LogLevel))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithWallet(wallet string) context.Context {
	return xcontext.WithRequestWallet(MockContext(), wallet)
}
