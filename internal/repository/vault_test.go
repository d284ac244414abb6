package repository_test

import (
	"testing"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/internal/repository"
	"github.com/payroll-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_vaultRepository_Transfer(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewVaultRepository()

	from := entity.WalletVaultKey("alice")
	to := entity.WalletVaultKey("bob")

	require.NoError(t, repo.Deposit(ctx, from, 100))

	require.NoError(t, repo.Transfer(ctx, from, to, 60))

	fromBalance, err := repo.Balance(ctx, from)
	require.NoError(t, err)
	require.Equal(t, uint64(40), fromBalance)

	toBalance, err := repo.Balance(ctx, to)
	require.NoError(t, err)
	require.Equal(t, uint64(60), toBalance)

	// An overdraft is rejected and moves nothing.
	err = repo.Transfer(ctx, from, to, 41)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	fromBalance, err = repo.Balance(ctx, from)
	require.NoError(t, err)
	require.Equal(t, uint64(40), fromBalance)

	// Draining the account exactly is allowed.
	require.NoError(t, repo.Transfer(ctx, from, to, 40))

	fromBalance, err = repo.Balance(ctx, from)
	require.NoError(t, err)
	require.Equal(t, uint64(0), fromBalance)

	// A transfer from an unknown account fails the same way.
	err = repo.Transfer(ctx, entity.WalletVaultKey("nobody"), to, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Zero transfers are a no-op even between unknown accounts.
	require.NoError(t, repo.Transfer(ctx, entity.WalletVaultKey("nobody"), to, 0))
}

func Test_vaultRepository_Deposit_Accumulates(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewVaultRepository()

	key := entity.RaffleVaultKey(7)
	require.NoError(t, repo.Deposit(ctx, key, 10))
	require.NoError(t, repo.Deposit(ctx, key, 15))

	balance, err := repo.Balance(ctx, key)
	require.NoError(t, err)
	require.Equal(t, uint64(25), balance)

	// An account that never received a deposit reads as zero.
	balance, err = repo.Balance(ctx, entity.RaffleVaultKey(8))
	require.NoError(t, err)
	require.Equal(t, uint64(0), balance)
}

func Test_raffleRepository_CheckAndSellTickets(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewRaffleRepository()

	require.NoError(t, repo.Create(ctx, &entity.Raffle{ID: 1, MaxTickets: 10}))

	require.NoError(t, repo.CheckAndSellTickets(ctx, 1, 7))
	require.NoError(t, repo.CheckAndSellTickets(ctx, 1, 3))

	// The supply is exhausted now.
	err := repo.CheckAndSellTickets(ctx, 1, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	raffle, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(10), raffle.TicketsSold)

	// A drawn raffle sells nothing even with supply left.
	require.NoError(t, repo.Create(ctx, &entity.Raffle{ID: 2, MaxTickets: 10, IsDrawn: true}))
	err = repo.CheckAndSellTickets(ctx, 2, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_raffleRepository_ClaimFlags(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewRaffleRepository()

	require.NoError(t, repo.Create(ctx, &entity.Raffle{ID: 1, MaxTickets: 10}))

	require.NoError(t, repo.BeginClaim(ctx, 1))
	require.ErrorIs(t, repo.BeginClaim(ctx, 1), gorm.ErrRecordNotFound)

	require.NoError(t, repo.EndClaim(ctx, 1))
	require.NoError(t, repo.BeginClaim(ctx, 1))

	require.NoError(t, repo.CheckAndClaimPrize(ctx, 1))
	require.ErrorIs(t, repo.CheckAndClaimPrize(ctx, 1), gorm.ErrRecordNotFound)
}
