package domain

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/payroll-lab/backend/internal/common"
	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/internal/model"
	"github.com/payroll-lab/backend/internal/repository"
	"github.com/payroll-lab/backend/pkg/testutil"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newRaffleDomainForTest() *raffleDomain {
	return NewRaffleDomain(
		repository.NewPlatformRepository(),
		repository.NewSecurityConfigRepository(),
		repository.NewRaffleRepository(),
		repository.NewTicketRepository(),
		repository.NewUserStatsRepository(),
		repository.NewBlacklistRepository(),
		repository.NewVaultRepository(),
	)
}

func walletAt(ctx context.Context, wallet string, at time.Time) context.Context {
	return xcontext.WithRequestWallet(testutil.FrozenAt(ctx, at), wallet)
}

func Test_raffleDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest()

	adminCtx := walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow)
	resp, err := domain.Create(adminCtx, &model.CreateRaffleRequest{
		PrizeAmount: common.MinPrizeAmount,
		TicketPrice: common.MinTicketPrice,
		MaxTickets:  1000,
		EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.NotZero(t, resp.Raffle.ID)
	require.Equal(t, testutil.AdminWallet, resp.Raffle.Admin)
	require.Equal(t, common.MaxTicketsPerWallet, resp.Raffle.MaxTicketsPerWallet)

	// The prize moved from the admin wallet into the raffle escrow.
	vaultRepo := repository.NewVaultRepository()
	escrow, err := vaultRepo.Balance(ctx, entity.RaffleVaultKey(resp.Raffle.ID))
	require.NoError(t, err)
	require.Equal(t, common.MinPrizeAmount, escrow)

	platform, err := repository.NewPlatformRepository().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), platform.TotalRaffles)

	// A second creation inside the admin cooldown is rejected.
	_, err = domain.Create(adminCtx, &model.CreateRaffleRequest{
		PrizeAmount: common.MinPrizeAmount,
		TicketPrice: common.MinTicketPrice,
		MaxTickets:  1000,
		EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Error(t, err)
	require.Equal(t,
		"Too many admin actions, please wait before creating another raffle", err.Error())

	// After the cooldown it succeeds again.
	laterCtx := walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow.Add(common.AdminRateLimit))
	_, err = domain.Create(laterCtx, &model.CreateRaffleRequest{
		PrizeAmount: common.MinPrizeAmount,
		TicketPrice: common.MinTicketPrice,
		MaxTickets:  1000,
		EndTime:     testutil.FixtureNow.Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
}

func Test_raffleDomain_Create_ExplicitID(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest()

	adminCtx := walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow)
	resp, err := domain.Create(adminCtx, &model.CreateRaffleRequest{
		ID:          42,
		PrizeAmount: common.MinPrizeAmount,
		TicketPrice: common.MinTicketPrice,
		MaxTickets:  1000,
		EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, uint64(42), resp.Raffle.ID)

	laterCtx := walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow.Add(common.AdminRateLimit))
	_, err = domain.Create(laterCtx, &model.CreateRaffleRequest{
		ID:          42,
		PrizeAmount: common.MinPrizeAmount,
		TicketPrice: common.MinTicketPrice,
		MaxTickets:  1000,
		EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Error(t, err)
	require.Equal(t, "Raffle already exists", err.Error())
}

func Test_raffleDomain_Create_Invalid(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest()
	adminCtx := walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow)

	testCases := []struct {
		name    string
		req     model.CreateRaffleRequest
		wallet  string
		wantErr string
	}{
		{
			name: "not admin",
			req: model.CreateRaffleRequest{
				PrizeAmount: common.MinPrizeAmount,
				TicketPrice: common.MinTicketPrice,
				MaxTickets:  1000,
				EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
			},
			wallet:  testutil.Wallet1,
			wantErr: "Only the platform admin can perform this action",
		},
		{
			name: "unparsable end time",
			req: model.CreateRaffleRequest{
				PrizeAmount: common.MinPrizeAmount,
				TicketPrice: common.MinTicketPrice,
				MaxTickets:  1000,
				EndTime:     "tomorrow",
			},
			wallet:  testutil.AdminWallet,
			wantErr: "Invalid end time",
		},
		{
			name: "duration too short",
			req: model.CreateRaffleRequest{
				PrizeAmount: common.MinPrizeAmount,
				TicketPrice: common.MinTicketPrice,
				MaxTickets:  1000,
				EndTime:     testutil.FixtureNow.Add(30 * time.Minute).Format(time.RFC3339),
			},
			wallet:  testutil.AdminWallet,
			wantErr: "Raffle duration is too short",
		},
		{
			name: "prize below minimum",
			req: model.CreateRaffleRequest{
				PrizeAmount: common.MinPrizeAmount - 1,
				TicketPrice: common.MinTicketPrice,
				MaxTickets:  1000,
				EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
			},
			wallet:  testutil.AdminWallet,
			wantErr: "Prize amount is below the minimum",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			callCtx := adminCtx
			if tc.wallet != testutil.AdminWallet {
				callCtx = walletAt(ctx, tc.wallet, testutil.FixtureNow)
			}

			_, err := domain.Create(callCtx, &tc.req)
			require.Error(t, err)
			require.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func Test_raffleDomain_Create_WhenPaused(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	require.NoError(t, repository.NewPlatformRepository().Update(ctx,
		map[string]any{"is_paused": true}))

	domain := newRaffleDomainForTest()
	_, err := domain.Create(walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow),
		&model.CreateRaffleRequest{
			PrizeAmount: common.MinPrizeAmount,
			TicketPrice: common.MinTicketPrice,
			MaxTickets:  1000,
			EndTime:     testutil.FixtureNow.Add(24 * time.Hour).Format(time.RFC3339),
		})
	require.Error(t, err)
	require.Equal(t, "Platform is paused", err.Error())
}

func Test_raffleDomain_BuyTicket(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	buyCtx := walletAt(ctx, testutil.Wallet1, testutil.FixtureNow)
	resp, err := domain.BuyTicket(buyCtx, &model.BuyTicketRequest{
		RaffleID: raffle.ID,
		Quantity: 5,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.Ticket.StartNumber)
	require.Equal(t, uint64(5), resp.Ticket.Quantity)

	// Payment landed in the raffle escrow on top of the prize.
	vaultRepo := repository.NewVaultRepository()
	escrow, err := vaultRepo.Balance(ctx, entity.RaffleVaultKey(raffle.ID))
	require.NoError(t, err)
	require.Equal(t, raffle.PrizeAmount+5*raffle.TicketPrice, escrow)

	// A repeat purchase while the block still ends at the sale counter
	// extends it instead of opening a new one.
	againCtx := walletAt(ctx, testutil.Wallet1,
		testutil.FixtureNow.Add(common.PurchaseRateLimit))
	resp2, err := domain.BuyTicket(againCtx, &model.BuyTicketRequest{
		RaffleID: raffle.ID,
		Quantity: 2,
	})
	require.NoError(t, err)
	require.Equal(t, resp.Ticket.ID, resp2.Ticket.ID)
	require.Equal(t, uint64(0), resp2.Ticket.StartNumber)
	require.Equal(t, uint64(7), resp2.Ticket.Quantity)

	// A second buyer gets the next contiguous block.
	resp3, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet2, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, uint64(7), resp3.Ticket.StartNumber)
	require.Equal(t, uint64(3), resp3.Ticket.Quantity)

	updated, err := repository.NewRaffleRepository().GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(10), updated.TicketsSold)
}

func Test_raffleDomain_BuyTicket_Stats(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	buyCtx := walletAt(ctx, testutil.Wallet1, testutil.FixtureNow)
	_, err := domain.BuyTicket(buyCtx, &model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	stats, err := repository.NewUserStatsRepository().Get(ctx, testutil.Wallet1)
	require.NoError(t, err)
	require.Equal(t, uint64(5), stats.TotalTicketsBought)
	require.Equal(t, 5*raffle.TicketPrice, stats.TotalSpent)
	require.Equal(t, uint64(1), stats.RafflesParticipated)

	againCtx := walletAt(ctx, testutil.Wallet1,
		testutil.FixtureNow.Add(common.PurchaseRateLimit))
	_, err = domain.BuyTicket(againCtx, &model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 2})
	require.NoError(t, err)

	stats, err = repository.NewUserStatsRepository().Get(ctx, testutil.Wallet1)
	require.NoError(t, err)
	require.Equal(t, uint64(7), stats.TotalTicketsBought)
	// Extending a block in the same raffle does not count as a new raffle.
	require.Equal(t, uint64(1), stats.RafflesParticipated)
}

func Test_raffleDomain_BuyTicket_Guards(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest()

	raffle := testutil.SampleRaffle(ctx, nil)
	pausedRaffle := testutil.SampleRaffle(ctx, &entity.Raffle{ID: 2, IsPaused: true})
	smallRaffle := testutil.SampleRaffle(ctx, &entity.Raffle{ID: 3, MaxTickets: 10})
	cappedRaffle := testutil.SampleRaffle(ctx, &entity.Raffle{ID: 4, MaxTicketsPerWallet: 3})

	require.NoError(t, repository.NewBlacklistRepository().Save(ctx, &entity.BlacklistEntry{
		Wallet:        testutil.Wallet3,
		BlacklistedBy: testutil.AdminWallet,
		Reason:        entity.BotBehavior,
		IsActive:      true,
	}))

	testCases := []struct {
		name    string
		wallet  string
		at      time.Time
		req     model.BuyTicketRequest
		wantErr string
	}{
		{
			name:    "zero quantity",
			wallet:  testutil.Wallet1,
			at:      testutil.FixtureNow,
			req:     model.BuyTicketRequest{RaffleID: raffle.ID},
			wantErr: "Quantity must be positive",
		},
		{
			name:    "unknown raffle",
			wallet:  testutil.Wallet1,
			at:      testutil.FixtureNow,
			req:     model.BuyTicketRequest{RaffleID: 999, Quantity: 1},
			wantErr: "Not found raffle",
		},
		{
			name:    "paused raffle",
			wallet:  testutil.Wallet1,
			at:      testutil.FixtureNow,
			req:     model.BuyTicketRequest{RaffleID: pausedRaffle.ID, Quantity: 1},
			wantErr: "Raffle is paused",
		},
		{
			name:    "ended raffle",
			wallet:  testutil.Wallet1,
			at:      raffle.EndTime,
			req:     model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1},
			wantErr: "Raffle has ended",
		},
		{
			name:    "supply exceeded",
			wallet:  testutil.Wallet1,
			at:      testutil.FixtureNow,
			req:     model.BuyTicketRequest{RaffleID: smallRaffle.ID, Quantity: 11},
			wantErr: "Not enough tickets remaining",
		},
		{
			name:    "per wallet cap",
			wallet:  testutil.Wallet1,
			at:      testutil.FixtureNow,
			req:     model.BuyTicketRequest{RaffleID: cappedRaffle.ID, Quantity: 4},
			wantErr: "Purchase would exceed the per-wallet ticket limit",
		},
		{
			name:    "blacklisted wallet",
			wallet:  testutil.Wallet3,
			at:      testutil.FixtureNow,
			req:     model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1},
			wantErr: "Wallet is blacklisted",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.BuyTicket(walletAt(ctx, tc.wallet, tc.at), &tc.req)
			require.Error(t, err)
			require.Equal(t, tc.wantErr, err.Error())
		})
	}
}

func Test_raffleDomain_BuyTicket_RateLimited(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	_, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = domain.BuyTicket(
		walletAt(ctx, testutil.Wallet1, testutil.FixtureNow.Add(time.Second)),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.Error(t, err)
	require.Equal(t, "Too many purchases, please wait before buying again", err.Error())

	// Disabling the limiter lifts the cooldown.
	require.NoError(t, repository.NewSecurityConfigRepository().Update(ctx,
		map[string]any{"rate_limiting_enabled": false}))

	_, err = domain.BuyTicket(
		walletAt(ctx, testutil.Wallet1, testutil.FixtureNow.Add(time.Second)),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.NoError(t, err)
}

func Test_raffleDomain_BuyTicket_InsufficientFunds(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, &entity.Raffle{TicketPrice: common.MaxTicketPrice})
	domain := newRaffleDomainForTest()

	_, err := domain.BuyTicket(walletAt(ctx, "poor-wallet", testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.Error(t, err)
	require.Equal(t, "Not enough funds to buy 1 tickets", err.Error())

	// Nothing was sold.
	updated, err := repository.NewRaffleRepository().GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), updated.TicketsSold)
}

func Test_raffleDomain_BuyTicket_FreeRaffle(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, &entity.Raffle{IsFree: true, TicketPrice: 0})
	domain := newRaffleDomainForTest()

	vaultRepo := repository.NewVaultRepository()
	before, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(testutil.Wallet1))
	require.NoError(t, err)

	_, err = domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	after, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(testutil.Wallet1))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func Test_raffleDomain_DrawWinner(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	_, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 10})
	require.NoError(t, err)

	// Drawing before the end is rejected.
	_, err = domain.DrawWinner(testutil.FrozenAt(ctx, testutil.FixtureNow),
		&model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Raffle has not ended yet", err.Error())

	afterEnd := xcontext.WithBlockHeight(
		testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute)), 500)
	resp, err := domain.DrawWinner(afterEnd, &model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.False(t, resp.Pending)
	require.Less(t, resp.WinningTicket, uint64(10))

	updated, err := repository.NewRaffleRepository().GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.True(t, updated.IsDrawn)
	require.Equal(t, resp.WinningTicket, updated.WinningTicket)
	// The draw height is kept for the audit trail.
	require.Equal(t, uint64(500), updated.DrawRequestedHeight)

	_, err = domain.DrawWinner(afterEnd, &model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Raffle winner has already been drawn", err.Error())
}

func Test_raffleDomain_DrawWinner_NoTickets(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	_, err := domain.DrawWinner(testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute)),
		&model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "No tickets were sold", err.Error())
}

func Test_raffleDomain_DrawWinner_Vrf(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	require.NoError(t, repository.NewSecurityConfigRepository().Update(ctx,
		map[string]any{"vrf_required": true}))

	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	_, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 10})
	require.NoError(t, err)

	vrfResult := make([]byte, 32)
	binary.LittleEndian.PutUint64(vrfResult, 123)

	// First call records the request and waits for confirmations.
	requestCtx := xcontext.WithBlockHeight(
		testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute)), 1000)
	resp, err := domain.DrawWinner(requestCtx, &model.DrawWinnerRequest{
		RaffleID:  raffle.ID,
		VrfResult: vrfResult,
	})
	require.NoError(t, err)
	require.True(t, resp.Pending)

	// Too few confirmations since the request.
	earlyCtx := xcontext.WithBlockHeight(
		testutil.FrozenAt(ctx, raffle.EndTime.Add(2*time.Minute)), 1010)
	_, err = domain.DrawWinner(earlyCtx, &model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Not enough block confirmations since the draw request", err.Error())

	// Enough confirmations finalizes the draw from the VRF bytes.
	finalCtx := xcontext.WithBlockHeight(
		testutil.FrozenAt(ctx, raffle.EndTime.Add(10*time.Minute)), 1000+common.MinBlockConfirmations)
	resp, err = domain.DrawWinner(finalCtx, &model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.False(t, resp.Pending)
	require.Equal(t, uint64(123%10), resp.WinningTicket)

	// Finalizing keeps the original request height.
	updated, err := repository.NewRaffleRepository().GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), updated.DrawRequestedHeight)
}

func Test_raffleDomain_DrawWinner_InvalidVrf(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	require.NoError(t, repository.NewSecurityConfigRepository().Update(ctx,
		map[string]any{"vrf_required": true}))

	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	_, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 10})
	require.NoError(t, err)

	requestCtx := xcontext.WithBlockHeight(
		testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute)), 1000)
	resp, err := domain.DrawWinner(requestCtx, &model.DrawWinnerRequest{
		RaffleID:  raffle.ID,
		VrfResult: []byte{1, 2, 3},
	})
	require.NoError(t, err)
	require.True(t, resp.Pending)

	finalCtx := xcontext.WithBlockHeight(
		testutil.FrozenAt(ctx, raffle.EndTime.Add(10*time.Minute)), 1000+common.MinBlockConfirmations)
	_, err = domain.DrawWinner(finalCtx, &model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "VRF result is too short", err.Error())
}

func Test_raffleDomain_SetWinner(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	other := testutil.SampleRaffle(ctx, &entity.Raffle{ID: 2})
	domain := newRaffleDomainForTest()

	buy1, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	buy2, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet2, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	otherBuy, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet3, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: other.ID, Quantity: 5})
	require.NoError(t, err)

	// Cannot resolve a winner before the draw.
	_, err = domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: buy1.Ticket.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Raffle winner has not been drawn yet", err.Error())

	drawCtx := testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute))
	draw, err := domain.DrawWinner(drawCtx, &model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	winning, losing := buy1.Ticket, buy2.Ticket
	winner, loser := testutil.Wallet1, testutil.Wallet2
	if draw.WinningTicket >= 5 {
		winning, losing = buy2.Ticket, buy1.Ticket
		winner, loser = testutil.Wallet2, testutil.Wallet1
	}
	_ = loser

	// A ticket from another raffle is rejected.
	_, err = domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: otherBuy.Ticket.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Ticket belongs to another raffle", err.Error())

	// The losing block does not contain the winning number.
	_, err = domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: losing.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Ticket block does not contain the winning number", err.Error())

	resp, err := domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: winning.ID,
	})
	require.NoError(t, err)
	require.Equal(t, winner, resp.Winner)

	_, err = domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: winning.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Raffle winner is already set", err.Error())
}

func Test_raffleDomain_ClaimPrize(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	winner := drawAndResolveWinner(t, ctx, domain, raffle)

	vaultRepo := repository.NewVaultRepository()
	before, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(winner))
	require.NoError(t, err)

	// A non-winner cannot claim.
	nonWinner := testutil.Wallet1
	if winner == testutil.Wallet1 {
		nonWinner = testutil.Wallet2
	}
	_, err = domain.ClaimPrize(walletAt(ctx, nonWinner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Caller is not the raffle winner", err.Error())

	resp, err := domain.ClaimPrize(walletAt(ctx, winner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, raffle.PrizeAmount, resp.PrizeAmount)

	after, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(winner))
	require.NoError(t, err)
	require.Equal(t, before+raffle.PrizeAmount, after)

	platform, err := repository.NewPlatformRepository().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, raffle.PrizeAmount, platform.TotalPrizesPaid)

	stats, err := repository.NewUserStatsRepository().Get(ctx, winner)
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.TotalWins)
	require.Equal(t, raffle.PrizeAmount, stats.TotalWinnings)

	// Claiming twice is rejected and pays nothing.
	_, err = domain.ClaimPrize(walletAt(ctx, winner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Prize has already been claimed", err.Error())

	unchanged, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(winner))
	require.NoError(t, err)
	require.Equal(t, after, unchanged)
}

func Test_raffleDomain_ClaimPrize_Reentrancy(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	winner := drawAndResolveWinner(t, ctx, domain, raffle)

	// Simulate a concurrent claim holding the claiming flag.
	raffleRepo := repository.NewRaffleRepository()
	require.NoError(t, raffleRepo.BeginClaim(ctx, raffle.ID))

	_, err := domain.ClaimPrize(walletAt(ctx, winner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "A claim is already in progress", err.Error())

	// Once the flag is released the claim goes through.
	require.NoError(t, raffleRepo.EndClaim(ctx, raffle.ID))
	_, err = domain.ClaimPrize(walletAt(ctx, winner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	// The flag is released again after a successful claim.
	updated, err := raffleRepo.GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.False(t, updated.IsClaiming)
	require.True(t, updated.IsClaimed)
}

func Test_raffleDomain_WithdrawProceeds(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	winner := drawAndResolveWinner(t, ctx, domain, raffle)

	adminCtx := walletAt(ctx, testutil.AdminWallet, raffle.EndTime.Add(time.Hour))

	// Proceeds are locked until the prize is claimed.
	_, err := domain.WithdrawProceeds(adminCtx,
		&model.WithdrawProceedsRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Prize has not been claimed yet", err.Error())

	_, err = domain.ClaimPrize(walletAt(ctx, winner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	// Only the raffle admin can withdraw.
	_, err = domain.WithdrawProceeds(walletAt(ctx, testutil.Wallet3, testutil.FixtureNow),
		&model.WithdrawProceedsRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Only the raffle admin can withdraw proceeds", err.Error())

	updated, err := repository.NewRaffleRepository().GetByID(ctx, raffle.ID)
	require.NoError(t, err)

	sales := updated.TicketsSold * raffle.TicketPrice
	fees := updated.FeesCollected

	vaultRepo := repository.NewVaultRepository()
	adminBefore, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(testutil.AdminWallet))
	require.NoError(t, err)

	resp, err := domain.WithdrawProceeds(adminCtx,
		&model.WithdrawProceedsRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, sales-fees, resp.Amount)

	adminAfter, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(testutil.AdminWallet))
	require.NoError(t, err)
	require.Equal(t, adminBefore+sales-fees, adminAfter)

	// The platform kept the fees in its treasury account.
	treasury, err := vaultRepo.Balance(ctx, entity.PlatformTreasuryKey)
	require.NoError(t, err)
	require.Equal(t, fees, treasury)

	platform, err := repository.NewPlatformRepository().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, fees, platform.TotalFeesCollected)

	// The raffle vault is empty after withdrawal.
	escrow, err := vaultRepo.Balance(ctx, entity.RaffleVaultKey(raffle.ID))
	require.NoError(t, err)
	require.Equal(t, uint64(0), escrow)
}

func Test_raffleDomain_WithdrawProceeds_NoSale(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	// Before the end the refund path is closed.
	_, err := domain.WithdrawProceeds(walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow),
		&model.WithdrawProceedsRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Raffle has not ended yet", err.Error())

	vaultRepo := repository.NewVaultRepository()
	adminBefore, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(testutil.AdminWallet))
	require.NoError(t, err)

	// An ended raffle with zero sales refunds the escrowed prize.
	resp, err := domain.WithdrawProceeds(
		walletAt(ctx, testutil.AdminWallet, raffle.EndTime.Add(time.Hour)),
		&model.WithdrawProceedsRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, raffle.PrizeAmount, resp.Amount)

	adminAfter, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(testutil.AdminWallet))
	require.NoError(t, err)
	require.Equal(t, adminBefore+raffle.PrizeAmount, adminAfter)
}

func Test_raffleDomain_PauseUnpause(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	adminCtx := walletAt(ctx, testutil.AdminWallet, testutil.FixtureNow)

	_, err := domain.Pause(adminCtx, &model.PauseRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	_, err = domain.Pause(adminCtx, &model.PauseRaffleRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Raffle is already paused", err.Error())

	// Sales are blocked while paused.
	_, err = domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.Error(t, err)
	require.Equal(t, "Raffle is paused", err.Error())

	_, err = domain.Unpause(adminCtx, &model.UnpauseRaffleRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	_, err = domain.Unpause(adminCtx, &model.UnpauseRaffleRequest{RaffleID: raffle.ID})
	require.Error(t, err)
	require.Equal(t, "Raffle is not paused", err.Error())

	_, err = domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.NoError(t, err)
}

// drawAndResolveWinner sells two ticket blocks, draws the raffle, and
// resolves the winning wallet.
func drawAndResolveWinner(
	t *testing.T, ctx context.Context, domain *raffleDomain, raffle entity.Raffle,
) string {
	t.Helper()

	buy1, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	buy2, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet2, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	draw, err := domain.DrawWinner(testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute)),
		&model.DrawWinnerRequest{RaffleID: raffle.ID})
	require.NoError(t, err)

	ticketID := buy1.Ticket.ID
	if draw.WinningTicket >= 5 {
		ticketID = buy2.Ticket.ID
	}

	resp, err := domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: ticketID,
	})
	require.NoError(t, err)

	return resp.Winner
}

func Test_raffleDomain_BuyTicket_InterleavedBlocks(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	first, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet1, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.NoError(t, err)

	second, err := domain.BuyTicket(walletAt(ctx, testutil.Wallet2, testutil.FixtureNow),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
	require.NoError(t, err)

	// Another buyer moved the sale counter, so wallet-1's next purchase
	// opens a new block instead of growing its old one over tickets 1-5.
	laterCtx := walletAt(ctx, testutil.Wallet1,
		testutil.FixtureNow.Add(common.PurchaseRateLimit))
	third, err := domain.BuyTicket(laterCtx, &model.BuyTicketRequest{
		RaffleID: raffle.ID,
		Quantity: 2,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.Ticket.ID, third.Ticket.ID)
	require.Equal(t, uint64(6), third.Ticket.StartNumber)
	require.Equal(t, uint64(2), third.Ticket.Quantity)

	// The new block still ends at the sale counter, so a followup purchase
	// extends it.
	fourth, err := domain.BuyTicket(
		walletAt(ctx, testutil.Wallet1, testutil.FixtureNow.Add(2*common.PurchaseRateLimit)),
		&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 1})
	require.NoError(t, err)
	require.Equal(t, third.Ticket.ID, fourth.Ticket.ID)
	require.Equal(t, uint64(3), fourth.Ticket.Quantity)

	// The blocks tile [0, ticketsSold) with no gaps or overlaps.
	updated, err := repository.NewRaffleRepository().GetByID(ctx, raffle.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(9), updated.TicketsSold)

	blocks, err := repository.NewTicketRepository().GetListByRaffle(ctx, raffle.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	var next uint64
	for _, block := range blocks {
		require.Equal(t, next, block.StartNumber)
		next += block.Quantity
	}
	require.Equal(t, updated.TicketsSold, next)

	// Ticket 2 was sold to wallet-2 and resolves to wallet-2 alone.
	require.NoError(t, repository.NewRaffleRepository().MarkDrawn(ctx, raffle.ID, 2, 0))

	_, err = domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: first.Ticket.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Ticket block does not contain the winning number", err.Error())

	resp, err := domain.SetWinner(ctx, &model.SetWinnerRequest{
		RaffleID: raffle.ID,
		TicketID: second.Ticket.ID,
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Wallet2, resp.Winner)
}

func Test_raffleDomain_ClaimPrize_WhilePlatformPaused(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	winner := drawAndResolveWinner(t, ctx, domain, raffle)

	// An emergency pause blocks new sales but never traps a won prize.
	require.NoError(t, repository.NewPlatformRepository().Update(ctx,
		map[string]any{"is_paused": true}))

	resp, err := domain.ClaimPrize(walletAt(ctx, winner, testutil.FixtureNow),
		&model.ClaimPrizeRequest{RaffleID: raffle.ID})
	require.NoError(t, err)
	require.Equal(t, raffle.PrizeAmount, resp.PrizeAmount)
}

func Test_raffleDomain_ClaimPrize_Concurrent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	raffle := testutil.SampleRaffle(ctx, nil)
	domain := newRaffleDomainForTest()

	winner := drawAndResolveWinner(t, ctx, domain, raffle)
	claimCtx := walletAt(ctx, winner, testutil.FixtureNow)

	vaultRepo := repository.NewVaultRepository()
	before, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(winner))
	require.NoError(t, err)

	errs := make([]error, 2)
	eg := errgroup.Group{}
	for i := range errs {
		i := i
		eg.Go(func() error {
			_, errs[i] = domain.ClaimPrize(claimCtx,
				&model.ClaimPrizeRequest{RaffleID: raffle.ID})
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	// Exactly one claim went through, the other was stopped by the claiming
	// flag or by the claimed state.
	var failed []error
	for _, claimErr := range errs {
		if claimErr != nil {
			failed = append(failed, claimErr)
		}
	}
	require.Len(t, failed, 1)
	require.Contains(t, []string{
		"A claim is already in progress",
		"Prize has already been claimed",
	}, failed[0].Error())

	// The prize was paid exactly once.
	after, err := vaultRepo.Balance(ctx, entity.WalletVaultKey(winner))
	require.NoError(t, err)
	require.Equal(t, before+raffle.PrizeAmount, after)
}

func Test_raffleDomain_ClaimPrize_ConcurrentCounters(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newRaffleDomainForTest()

	raffles := []entity.Raffle{
		testutil.SampleRaffle(ctx, nil),
		testutil.SampleRaffle(ctx, &entity.Raffle{ID: 2, PrizeAmount: 2 * common.MinPrizeAmount}),
	}

	winners := make([]string, len(raffles))
	for i, raffle := range raffles {
		buy, err := domain.BuyTicket(walletAt(ctx, testutil.FundedWallet(ctx), testutil.FixtureNow),
			&model.BuyTicketRequest{RaffleID: raffle.ID, Quantity: 5})
		require.NoError(t, err)

		_, err = domain.DrawWinner(testutil.FrozenAt(ctx, raffle.EndTime.Add(time.Minute)),
			&model.DrawWinnerRequest{RaffleID: raffle.ID})
		require.NoError(t, err)

		resp, err := domain.SetWinner(ctx, &model.SetWinnerRequest{
			RaffleID: raffle.ID,
			TicketID: buy.Ticket.ID,
		})
		require.NoError(t, err)
		winners[i] = resp.Winner
	}

	// Claims on distinct raffles may run in parallel, each one adds its own
	// prize to the platform counter.
	eg := errgroup.Group{}
	for i := range raffles {
		i := i
		eg.Go(func() error {
			_, err := domain.ClaimPrize(walletAt(ctx, winners[i], testutil.FixtureNow),
				&model.ClaimPrizeRequest{RaffleID: raffles[i].ID})
			return err
		})
	}
	require.NoError(t, eg.Wait())

	platform, err := repository.NewPlatformRepository().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, raffles[0].PrizeAmount+raffles[1].PrizeAmount, platform.TotalPrizesPaid)
}
