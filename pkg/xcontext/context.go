// Package xcontext carries the per-request environment through a plain
// context.Context: database handle (or transaction), logger, configs, the
// verified caller wallet, and the ledger clock/height supplied by the
// dispatch layer.
package xcontext

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/payroll-lab/backend/config"
	"github.com/payroll-lab/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey   struct{}
	loggerKey    struct{}
	dbKey        struct{}
	txKey        struct{}
	walletKey    struct{}
	nowKey       struct{}
	heightKey    struct{}
	snowflakeKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current transaction if one is open, otherwise the base
// database handle.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		return t.tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction opens a transaction; DB() returns it until it is
// committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the open transaction. It is a no-op if the
// transaction was already finished.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		t.tx.Commit()
		t.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rolls back the open transaction. It is a no-op
// after a commit, so it is safe to defer unconditionally.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		t.tx.Rollback()
		t.done = true
	}

	return ctx
}

// WithRequestWallet records the verified caller identity. Verification is the
// job of the dispatch collaborator; the engine only trusts what it is given.
func WithRequestWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, walletKey{}, wallet)
}

func RequestWallet(ctx context.Context) string {
	wallet, ok := ctx.Value(walletKey{}).(string)
	if !ok {
		return ""
	}

	return wallet
}

// WithNow overrides the operation clock. The collaborator guarantees the
// clock is monotonically non-decreasing; tests use this to step time.
func WithNow(ctx context.Context, now func() time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, now)
}

func Now(ctx context.Context) time.Time {
	if f, ok := ctx.Value(nowKey{}).(func() time.Time); ok {
		return f()
	}

	return time.Now()
}

// WithBlockHeight records the ledger height observed by the dispatch layer.
func WithBlockHeight(ctx context.Context, height uint64) context.Context {
	return context.WithValue(ctx, heightKey{}, height)
}

func BlockHeight(ctx context.Context) uint64 {
	height, ok := ctx.Value(heightKey{}).(uint64)
	if !ok {
		return 0
	}

	return height
}

var (
	defaultSnowflake     *snowflake.Node
	defaultSnowflakeOnce sync.Once
)

func WithSnowFlake(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowFlake(ctx context.Context) *snowflake.Node {
	if node, ok := ctx.Value(snowflakeKey{}).(*snowflake.Node); ok {
		return node
	}

	defaultSnowflakeOnce.Do(func() {
		node, err := snowflake.NewNode(0)
		if err != nil {
			panic(err)
		}
		defaultSnowflake = node
	})

	return defaultSnowflake
}
