package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/payroll-lab/backend/config"
	"github.com/payroll-lab/backend/internal/domain"
	"github.com/payroll-lab/backend/internal/repository"
	"github.com/payroll-lab/backend/pkg/logger"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	platformRepo       repository.PlatformRepository
	securityConfigRepo repository.SecurityConfigRepository
	raffleRepo         repository.RaffleRepository
	ticketRepo         repository.TicketRepository
	userStatsRepo      repository.UserStatsRepository
	blacklistRepo      repository.BlacklistRepository
	vaultRepo          repository.VaultRepository

	platformDomain domain.PlatformDomain
	raffleDomain   domain.RaffleDomain
}

func (s *srv) loadConfig() config.Configs {
	// Missing .env is fine, the environment may be set by the deployment.
	godotenv.Load()

	return config.Configs{
		Env:      getEnv("ENV", "dev"),
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "payroll"),
			Password: getEnv("MYSQL_PASSWORD", ""),
			Database: getEnv("MYSQL_DATABASE", "payroll"),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("HOST", "0.0.0.0"),
			Port: getEnv("PORT", "8080"),
		},
	}
}

func (s *srv) loadContext() {
	cfg := s.loadConfig()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, s.newLogger(cfg))
	ctx = xcontext.WithDB(ctx, s.newDatabase(cfg))

	s.ctx = ctx
}

func (s *srv) newLogger(cfg config.Configs) logger.Logger {
	if cfg.Env == "dev" || cfg.Env == "testing" {
		return logger.NewLogger(cfg.LogLevel)
	}

	return logger.NewZapLogger("payroll", zapLevel(cfg.LogLevel))
}

func (s *srv) newDatabase(cfg config.Configs) *gorm.DB {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                      cfg.Database.ConnectionString(),
		DefaultStringSize:        256,
		DisableDatetimePrecision: true,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadRepos() {
	s.platformRepo = repository.NewPlatformRepository()
	s.securityConfigRepo = repository.NewSecurityConfigRepository()
	s.raffleRepo = repository.NewRaffleRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.userStatsRepo = repository.NewUserStatsRepository()
	s.blacklistRepo = repository.NewBlacklistRepository()
	s.vaultRepo = repository.NewVaultRepository()
}

func (s *srv) loadDomains() {
	s.platformDomain = domain.NewPlatformDomain(
		s.platformRepo, s.securityConfigRepo, s.blacklistRepo)
	s.raffleDomain = domain.NewRaffleDomain(
		s.platformRepo, s.securityConfigRepo, s.raffleRepo,
		s.ticketRepo, s.userStatsRepo, s.blacklistRepo, s.vaultRepo)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func parseLogLevel(level string) int {
	switch level {
	case "debug":
		return logger.DEBUG
	case "warning":
		return logger.WARNING
	case "error":
		return logger.ERROR
	case "silence":
		return logger.SILENCE
	default:
		if n, err := strconv.Atoi(level); err == nil {
			return n
		}

		return logger.INFO
	}
}

func zapLevel(level int) zapcore.Level {
	switch level {
	case logger.DEBUG:
		return zapcore.DebugLevel
	case logger.WARNING:
		return zapcore.WarnLevel
	case logger.ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
