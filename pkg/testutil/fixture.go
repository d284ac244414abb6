package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/payroll-lab/backend/internal/common"
	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/internal/repository"
	"github.com/payroll-lab/backend/pkg/crypto"
	"github.com/payroll-lab/backend/pkg/xcontext"
)

const (
	AdminWallet = "admin-wallet"
	Wallet1     = "wallet-1"
	Wallet2     = "wallet-2"
	Wallet3     = "wallet-3"
)

// FixtureNow is the reference clock used by fixture raffles.
var FixtureNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// CreateFixtureDb seeds an initialized platform, default security config, and
// funded ledger accounts into the context database.
func CreateFixtureDb(ctx context.Context) {
	err := repository.NewPlatformRepository().Create(ctx, &entity.Platform{
		Admin:  AdminWallet,
		FeeBps: common.DefaultPlatformFeeBps,
	})
	if err != nil {
		panic(err)
	}

	err = repository.NewSecurityConfigRepository().Create(ctx, &entity.SecurityConfig{
		RateLimitSeconds:      int64(common.PurchaseRateLimit.Seconds()),
		RateLimitingEnabled:   true,
		BlacklistEnabled:      true,
		VrfRequired:           false,
		MinBlockConfirmations: common.MinBlockConfirmations,
		MaxTicketsPerWallet:   common.MaxTicketsPerWallet,
		UpdatedBy:             AdminWallet,
	})
	if err != nil {
		panic(err)
	}

	vaultRepo := repository.NewVaultRepository()
	for _, wallet := range []string{AdminWallet, Wallet1, Wallet2, Wallet3} {
		if err := vaultRepo.Deposit(ctx, entity.WalletVaultKey(wallet), 1_000_000_000_000); err != nil {
			panic(err)
		}
	}
}

// SampleRaffle creates a raffle with sensible defaults. Non-zero fields of
// init overwrite the defaults. The prize is escrowed from the raffle admin's
// ledger account.
func SampleRaffle(ctx context.Context, init *entity.Raffle) entity.Raffle {
	sample := &entity.Raffle{
		ID:                  1,
		Admin:               AdminWallet,
		PrizeAmount:         common.MinPrizeAmount,
		TicketPrice:         common.MinTicketPrice,
		MaxTickets:          1000,
		MaxTicketsPerWallet: common.MaxTicketsPerWallet,
		EndTime:             FixtureNow.Add(24 * time.Hour),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewRaffleRepository().Create(ctx, sample); err != nil {
		panic(err)
	}

	vaultRepo := repository.NewVaultRepository()
	err := vaultRepo.Transfer(ctx,
		entity.WalletVaultKey(sample.Admin), entity.RaffleVaultKey(sample.ID), sample.PrizeAmount)
	if err != nil {
		panic(err)
	}

	return *sample
}

// FundedWallet generates a synthetic wallet address and funds its ledger
// account, for tests that need buyers beyond the fixture wallets.
func FundedWallet(ctx context.Context) string {
	wallet := crypto.GenerateRandomAlphabet(44)
	err := repository.NewVaultRepository().Deposit(
		ctx, entity.WalletVaultKey(wallet), 1_000_000_000_000)
	if err != nil {
		panic(err)
	}

	return wallet
}

// FrozenAt pins the operation clock to a fixed instant.
func FrozenAt(ctx context.Context, at time.Time) context.Context {
	return xcontext.WithNow(ctx, func() time.Time { return at })
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.Comparable() {
			continue
		}

		if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
