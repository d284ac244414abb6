package domain

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/payroll-lab/backend/internal/common"
	"github.com/payroll-lab/backend/internal/domain/randomness"
	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/internal/model"
	"github.com/payroll-lab/backend/internal/repository"
	"github.com/payroll-lab/backend/pkg/crypto"
	"github.com/payroll-lab/backend/pkg/errorx"
	"github.com/payroll-lab/backend/pkg/safemath"
	"github.com/payroll-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RaffleDomain interface {
	Create(context.Context, *model.CreateRaffleRequest) (*model.CreateRaffleResponse, error)
	Get(context.Context, *model.GetRaffleRequest) (*model.GetRaffleResponse, error)
	BuyTicket(context.Context, *model.BuyTicketRequest) (*model.BuyTicketResponse, error)
	DrawWinner(context.Context, *model.DrawWinnerRequest) (*model.DrawWinnerResponse, error)
	SetWinner(context.Context, *model.SetWinnerRequest) (*model.SetWinnerResponse, error)
	ClaimPrize(context.Context, *model.ClaimPrizeRequest) (*model.ClaimPrizeResponse, error)
	WithdrawProceeds(context.Context, *model.WithdrawProceedsRequest) (*model.WithdrawProceedsResponse, error)
	Pause(context.Context, *model.PauseRaffleRequest) (*model.PauseRaffleResponse, error)
	Unpause(context.Context, *model.UnpauseRaffleRequest) (*model.UnpauseRaffleResponse, error)
}

type raffleDomain struct {
	platformRepo       repository.PlatformRepository
	securityConfigRepo repository.SecurityConfigRepository
	raffleRepo         repository.RaffleRepository
	ticketRepo         repository.TicketRepository
	userStatsRepo      repository.UserStatsRepository
	blacklistRepo      repository.BlacklistRepository
	vaultRepo          repository.VaultRepository
}

func NewRaffleDomain(
	platformRepo repository.PlatformRepository,
	securityConfigRepo repository.SecurityConfigRepository,
	raffleRepo repository.RaffleRepository,
	ticketRepo repository.TicketRepository,
	userStatsRepo repository.UserStatsRepository,
	blacklistRepo repository.BlacklistRepository,
	vaultRepo repository.VaultRepository,
) *raffleDomain {
	return &raffleDomain{
		platformRepo:       platformRepo,
		securityConfigRepo: securityConfigRepo,
		raffleRepo:         raffleRepo,
		ticketRepo:         ticketRepo,
		userStatsRepo:      userStatsRepo,
		blacklistRepo:      blacklistRepo,
		vaultRepo:          vaultRepo,
	}
}

// Create opens a new raffle and escrows the prize from the admin wallet.
func (d *raffleDomain) Create(
	ctx context.Context, req *model.CreateRaffleRequest,
) (*model.CreateRaffleResponse, error) {
	wallet := xcontext.RequestWallet(ctx)
	platform, err := d.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}

	if err := common.RequireAdmin(platform, wallet); err != nil {
		return nil, err
	}

	if err := common.RequirePlatformActive(platform); err != nil {
		return nil, err
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errorx.New(errorx.InvalidTimestamp, "Invalid end time")
	}

	now := xcontext.Now(ctx)
	err = common.ValidateRaffleParams(
		req.PrizeAmount, req.TicketPrice, req.MaxTickets, endTime, now, req.IsFree)
	if err != nil {
		return nil, err
	}

	maxPerWallet := req.MaxTicketsPerWallet
	if maxPerWallet == 0 {
		maxPerWallet = common.MaxTicketsPerWallet
	}

	id := req.ID
	if id == 0 {
		id = uint64(xcontext.SnowFlake(ctx).Generate().Int64())
	} else if _, err := d.raffleRepo.GetByID(ctx, id); err == nil {
		return nil, errorx.New(errorx.AccountAlreadyInitialized, "Raffle already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check raffle id: %v", err)
		return nil, errorx.Unknown
	}

	raffle := &entity.Raffle{
		ID:                  id,
		Admin:               wallet,
		PrizeAmount:         req.PrizeAmount,
		TicketPrice:         req.TicketPrice,
		MaxTickets:          req.MaxTickets,
		MaxTicketsPerWallet: maxPerWallet,
		EndTime:             endTime,
		IsFree:              req.IsFree,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.platformRepo.CheckAndSetAdminAction(ctx, now, common.AdminRateLimit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RateLimitExceeded,
				"Too many admin actions, please wait before creating another raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot check admin rate limit: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.raffleRepo.Create(ctx, raffle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create raffle: %v", err)
		return nil, errorx.Unknown
	}

	err = d.platformRepo.Increase(ctx, "total_raffles", 1)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update raffle counter: %v", err)
		return nil, errorx.Unknown
	}

	err = d.vaultRepo.Transfer(ctx,
		entity.WalletVaultKey(wallet), entity.RaffleVaultKey(raffle.ID), req.PrizeAmount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientVaultFunds,
				"Not enough funds to escrow the prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot escrow prize: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	xcontext.Logger(ctx).Infof("Raffle %d created by %s", raffle.ID, wallet)
	return &model.CreateRaffleResponse{Raffle: convertRaffle(raffle)}, nil
}

func (d *raffleDomain) Get(
	ctx context.Context, req *model.GetRaffleRequest,
) (*model.GetRaffleResponse, error) {
	raffle, err := d.loadRaffle(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	tickets, err := d.ticketRepo.GetListByRaffle(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRaffleResponse{Raffle: convertRaffle(raffle)}
	for i := range tickets {
		resp.Tickets = append(resp.Tickets, convertTicket(&tickets[i]))
	}

	return resp, nil
}

// BuyTicket sells a contiguous block of ticket numbers to the caller. A
// repeat purchase extends the caller's existing block instead of creating a
// second one.
func (d *raffleDomain) BuyTicket(
	ctx context.Context, req *model.BuyTicketRequest,
) (*model.BuyTicketResponse, error) {
	wallet := xcontext.RequestWallet(ctx)
	if wallet == "" {
		return nil, errorx.New(errorx.Unauthorized, "Wallet address is required")
	}

	platform, err := d.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}

	if err := common.RequirePlatformActive(platform); err != nil {
		return nil, err
	}

	config, err := d.securityConfigRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AccountNotInitialized, "Security config is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get security config: %v", err)
		return nil, errorx.Unknown
	}

	raffle, err := d.loadRaffle(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	now := xcontext.Now(ctx)
	if err := common.RequireRaffleActive(raffle, now); err != nil {
		return nil, err
	}

	if config.BlacklistEnabled {
		entry, err := d.blacklistRepo.Get(ctx, wallet)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get blacklist entry: %v", err)
			return nil, errorx.Unknown
		}

		if err := common.RequireNotBlacklisted(entry); err != nil {
			return nil, err
		}
	}

	stats, err := d.userStatsRepo.Get(ctx, wallet)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
			return nil, errorx.Unknown
		}

		stats = &entity.UserStats{Wallet: wallet}
	}

	if err := common.RequireNotRateLimited(stats, now, config); err != nil {
		return nil, err
	}

	if err := common.ValidateTicketPurchase(raffle, req.Quantity, now); err != nil {
		return nil, err
	}

	lastBlock, err := d.ticketRepo.GetLastByRaffleAndOwner(ctx, raffle.ID, wallet)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get ticket block: %v", err)
		return nil, errorx.Unknown
	}

	ownedTickets, err := d.ticketRepo.CountByRaffleAndOwner(ctx, raffle.ID, wallet)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count owned tickets: %v", err)
		return nil, errorx.Unknown
	}

	err = common.RequireTicketLimit(ownedTickets, req.Quantity, raffle.MaxTicketsPerWallet)
	if err != nil {
		return nil, err
	}

	var cost uint64
	if !raffle.IsFree {
		cost, err = safemath.Mul(raffle.TicketPrice, req.Quantity)
		if err != nil {
			return nil, err
		}
	}

	fee, err := safemath.CalculateFee(cost, platform.FeeBps)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.vaultRepo.Transfer(ctx,
		entity.WalletVaultKey(wallet), entity.RaffleVaultKey(raffle.ID), cost)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientVaultFunds,
				"Not enough funds to buy %d tickets", req.Quantity)
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer ticket payment: %v", err)
		return nil, errorx.Unknown
	}

	if fee > 0 {
		if err := d.raffleRepo.AddFeesCollected(ctx, raffle.ID, fee); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record collected fee: %v", err)
			return nil, errorx.Unknown
		}
	}

	err = d.raffleRepo.CheckAndSellTickets(ctx, raffle.ID, req.Quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotEnoughTickets, "Not enough tickets remaining")
		}

		xcontext.Logger(ctx).Errorf("Cannot sell tickets: %v", err)
		return nil, errorx.Unknown
	}

	// The sale counter just moved, so the authoritative start of this block
	// is the committed sold count minus what was bought here.
	updated, err := d.raffleRepo.GetByID(ctx, raffle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload raffle: %v", err)
		return nil, errorx.Unknown
	}

	startNumber := updated.TicketsSold - req.Quantity

	// Only a block that still ends at the sale counter may grow. Anything
	// else gets a fresh block, otherwise a merge would capture numbers sold
	// to other wallets in between.
	ticket := lastBlock
	if ticket != nil && ticket.StartNumber+ticket.Quantity == startNumber {
		if err := d.ticketRepo.AddQuantity(ctx, ticket.ID, req.Quantity); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot extend ticket block: %v", err)
			return nil, errorx.Unknown
		}

		ticket.Quantity += req.Quantity
	} else {
		ticket = &entity.Ticket{
			Base:        entity.Base{ID: uuid.NewString()},
			RaffleID:    raffle.ID,
			Owner:       wallet,
			StartNumber: startNumber,
			Quantity:    req.Quantity,
			PurchasedAt: now,
			PurchaseTx:  purchaseAuditTag(wallet, raffle.ID, startNumber, now),
		}

		if err := d.ticketRepo.Create(ctx, ticket); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create ticket block: %v", err)
			return nil, errorx.Unknown
		}
	}

	if err := d.recordPurchase(ctx, stats, cost, req.Quantity, ownedTickets == 0, now); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.BuyTicketResponse{Ticket: convertTicket(ticket)}, nil
}

// DrawWinner picks the winning ticket number once the raffle has ended.
// When a VRF proof is required the first call only records the request and
// the draw is finalized after enough block confirmations.
func (d *raffleDomain) DrawWinner(
	ctx context.Context, req *model.DrawWinnerRequest,
) (*model.DrawWinnerResponse, error) {
	config, err := d.securityConfigRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AccountNotInitialized, "Security config is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get security config: %v", err)
		return nil, errorx.Unknown
	}

	raffle, err := d.loadRaffle(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	now := xcontext.Now(ctx)
	height := xcontext.BlockHeight(ctx)

	if config.VrfRequired && raffle.DrawRequestedHeight == 0 {
		if raffle.IsDrawn {
			return nil, errorx.New(errorx.RaffleAlreadyDrawn, "Raffle winner has already been drawn")
		}

		if !raffle.HasEnded(now) {
			return nil, errorx.New(errorx.RaffleNotEnded, "Raffle has not ended yet")
		}

		if raffle.TicketsSold == 0 {
			return nil, errorx.New(errorx.NoTicketsSold, "No tickets were sold")
		}

		err := d.raffleRepo.Update(ctx, raffle.ID, map[string]any{
			"draw_requested_height": height,
			"vrf_result":            req.VrfResult,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record draw request: %v", err)
			return nil, errorx.Unknown
		}

		return &model.DrawWinnerResponse{Pending: true}, nil
	}

	if err := common.ValidateDrawConditions(raffle, now, height, config); err != nil {
		return nil, err
	}

	vrfResult := raffle.VrfResult
	if len(req.VrfResult) > 0 {
		vrfResult = req.VrfResult
	}

	winningTicket, err := randomness.ForConfig(config).WinningTicket(randomness.Input{
		Height:       height,
		Timestamp:    now.Unix(),
		RaffleID:     raffle.ID,
		BlockEntropy: binary.LittleEndian.AppendUint64(nil, height),
		TicketsSold:  raffle.TicketsSold,
		VrfResult:    vrfResult,
	})
	if err != nil {
		return nil, err
	}

	if err := d.raffleRepo.MarkDrawn(ctx, raffle.ID, winningTicket, height); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RaffleAlreadyDrawn, "Raffle winner has already been drawn")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark raffle as drawn: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Raffle %d drew winning ticket %d", raffle.ID, winningTicket)
	return &model.DrawWinnerResponse{WinningTicket: winningTicket}, nil
}

// SetWinner resolves the winning ticket number to its owner wallet.
func (d *raffleDomain) SetWinner(
	ctx context.Context, req *model.SetWinnerRequest,
) (*model.SetWinnerResponse, error) {
	raffle, err := d.loadRaffle(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	if !raffle.IsDrawn {
		return nil, errorx.New(errorx.RaffleNotDrawn, "Raffle winner has not been drawn yet")
	}

	if raffle.Winner.Valid {
		return nil, errorx.New(errorx.WinnerAlreadySet, "Raffle winner is already set")
	}

	ticket, err := d.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ticket")
		}

		xcontext.Logger(ctx).Errorf("Cannot get ticket: %v", err)
		return nil, errorx.Unknown
	}

	if ticket.RaffleID != raffle.ID {
		return nil, errorx.New(errorx.AccountDataMismatch, "Ticket belongs to another raffle")
	}

	if !ticket.Contains(raffle.WinningTicket) {
		return nil, errorx.New(errorx.NotWinningTicket,
			"Ticket block does not contain the winning number")
	}

	if err := d.raffleRepo.CheckAndSetWinner(ctx, raffle.ID, ticket.Owner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.WinnerAlreadySet, "Raffle winner is already set")
		}

		xcontext.Logger(ctx).Errorf("Cannot set winner: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetWinnerResponse{Winner: ticket.Owner}, nil
}

// ClaimPrize pays the prize out to the winner. The claiming flag is taken
// before any fund movement and released afterwards, so a reentrant call is
// rejected instead of paying twice.
func (d *raffleDomain) ClaimPrize(
	ctx context.Context, req *model.ClaimPrizeRequest,
) (*model.ClaimPrizeResponse, error) {
	wallet := xcontext.RequestWallet(ctx)
	if _, err := d.loadPlatform(ctx); err != nil {
		return nil, err
	}

	raffle, err := d.loadRaffle(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	if err := common.ValidateClaimConditions(raffle, wallet); err != nil {
		return nil, err
	}

	if err := d.raffleRepo.BeginClaim(ctx, raffle.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.ReentrancyDetected, "A claim is already in progress")
		}

		xcontext.Logger(ctx).Errorf("Cannot begin claim: %v", err)
		return nil, errorx.Unknown
	}

	defer func() {
		if err := d.raffleRepo.EndClaim(ctx, raffle.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot release claim flag: %v", err)
		}
	}()

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	err = d.vaultRepo.Transfer(txCtx,
		entity.RaffleVaultKey(raffle.ID), entity.WalletVaultKey(wallet), raffle.PrizeAmount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientVaultFunds,
				"Raffle vault cannot cover the prize")
		}

		xcontext.Logger(ctx).Errorf("Cannot pay out prize: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.raffleRepo.CheckAndClaimPrize(txCtx, raffle.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PrizeAlreadyClaimed, "Prize has already been claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark prize as claimed: %v", err)
		return nil, errorx.Unknown
	}

	err = d.platformRepo.Increase(txCtx, "total_prizes_paid", raffle.PrizeAmount)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update prize counter: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.recordWin(txCtx, wallet, raffle.PrizeAmount); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(txCtx)

	xcontext.Logger(ctx).Infof("Raffle %d prize claimed by %s", raffle.ID, wallet)
	return &model.ClaimPrizeResponse{PrizeAmount: raffle.PrizeAmount}, nil
}

// WithdrawProceeds returns the remaining vault balance to the raffle admin.
// Sales proceeds are withdrawable after the prize has been claimed. A raffle
// that ended with no tickets sold refunds the escrowed prize instead.
func (d *raffleDomain) WithdrawProceeds(
	ctx context.Context, req *model.WithdrawProceedsRequest,
) (*model.WithdrawProceedsResponse, error) {
	wallet := xcontext.RequestWallet(ctx)
	if _, err := d.loadPlatform(ctx); err != nil {
		return nil, err
	}

	raffle, err := d.loadRaffle(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	if raffle.Admin != wallet {
		return nil, errorx.New(errorx.Unauthorized, "Only the raffle admin can withdraw proceeds")
	}

	now := xcontext.Now(ctx)
	if raffle.TicketsSold == 0 {
		if !raffle.HasEnded(now) {
			return nil, errorx.New(errorx.RaffleNotEnded, "Raffle has not ended yet")
		}
	} else {
		if !raffle.IsDrawn {
			return nil, errorx.New(errorx.RaffleNotDrawn, "Raffle winner has not been drawn yet")
		}

		if !raffle.IsClaimed {
			return nil, errorx.New(errorx.PrizeNotClaimed, "Prize has not been claimed yet")
		}
	}

	vaultKey := entity.RaffleVaultKey(raffle.ID)
	balance, err := d.vaultRepo.Balance(ctx, vaultKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get raffle vault balance: %v", err)
		return nil, errorx.Unknown
	}

	if balance == 0 {
		return &model.WithdrawProceedsResponse{}, nil
	}

	// The platform keeps the collected fees, the admin gets the rest.
	fees := raffle.FeesCollected
	if fees > balance {
		fees = balance
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if fees > 0 {
		err = d.vaultRepo.Transfer(ctx, vaultKey, entity.PlatformTreasuryKey, fees)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot transfer platform fees: %v", err)
			return nil, errorx.Unknown
		}

		err = d.platformRepo.Increase(ctx, "total_fees_collected", fees)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update fee counter: %v", err)
			return nil, errorx.Unknown
		}
	}

	amount := balance - fees
	if amount > 0 {
		err = d.vaultRepo.Transfer(ctx, vaultKey, entity.WalletVaultKey(wallet), amount)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot withdraw proceeds: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	xcontext.Logger(ctx).Infof("Raffle %d proceeds of %d withdrawn by %s", raffle.ID, amount, wallet)
	return &model.WithdrawProceedsResponse{Amount: amount}, nil
}

func (d *raffleDomain) Pause(
	ctx context.Context, req *model.PauseRaffleRequest,
) (*model.PauseRaffleResponse, error) {
	raffle, err := d.loadRaffleForAdmin(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	if raffle.IsPaused {
		return nil, errorx.New(errorx.RaffleAlreadyPaused, "Raffle is already paused")
	}

	if raffle.IsDrawn {
		return nil, errorx.New(errorx.RaffleAlreadyDrawn, "Raffle winner has already been drawn")
	}

	if err := d.raffleRepo.Update(ctx, raffle.ID, map[string]any{"is_paused": true}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pause raffle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.PauseRaffleResponse{}, nil
}

func (d *raffleDomain) Unpause(
	ctx context.Context, req *model.UnpauseRaffleRequest,
) (*model.UnpauseRaffleResponse, error) {
	raffle, err := d.loadRaffleForAdmin(ctx, req.RaffleID)
	if err != nil {
		return nil, err
	}

	if !raffle.IsPaused {
		return nil, errorx.New(errorx.RaffleNotPaused, "Raffle is not paused")
	}

	if err := d.raffleRepo.Update(ctx, raffle.ID, map[string]any{"is_paused": false}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unpause raffle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnpauseRaffleResponse{}, nil
}

func (d *raffleDomain) recordPurchase(
	ctx context.Context,
	stats *entity.UserStats,
	cost, quantity uint64,
	isFirstPurchase bool,
	now time.Time,
) error {
	totalBought, err := safemath.Add(stats.TotalTicketsBought, quantity)
	if err != nil {
		return err
	}

	totalSpent, err := safemath.Add(stats.TotalSpent, cost)
	if err != nil {
		return err
	}

	participated := stats.RafflesParticipated
	if isFirstPurchase {
		if participated, err = safemath.Add(participated, 1); err != nil {
			return err
		}
	}

	if stats.CreatedAt.IsZero() {
		stats.LastPurchaseTime = now
		stats.TotalTicketsBought = totalBought
		stats.TotalSpent = totalSpent
		stats.RafflesParticipated = participated
		if err := d.userStatsRepo.Create(ctx, stats); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user stats: %v", err)
			return errorx.Unknown
		}

		return nil
	}

	err = d.userStatsRepo.Update(ctx, stats.Wallet, map[string]any{
		"last_purchase_time":   now,
		"total_tickets_bought": totalBought,
		"total_spent":          totalSpent,
		"raffles_participated": participated,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user stats: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *raffleDomain) recordWin(ctx context.Context, wallet string, prize uint64) error {
	stats, err := d.userStatsRepo.Get(ctx, wallet)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
			return errorx.Unknown
		}

		err := d.userStatsRepo.Create(ctx, &entity.UserStats{
			Wallet:        wallet,
			TotalWins:     1,
			TotalWinnings: prize,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user stats: %v", err)
			return errorx.Unknown
		}

		return nil
	}

	totalWins, err := safemath.Add(stats.TotalWins, 1)
	if err != nil {
		return err
	}

	totalWinnings, err := safemath.Add(stats.TotalWinnings, prize)
	if err != nil {
		return err
	}

	err = d.userStatsRepo.Update(ctx, wallet, map[string]any{
		"total_wins":     totalWins,
		"total_winnings": totalWinnings,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user stats: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *raffleDomain) loadPlatform(ctx context.Context) (*entity.Platform, error) {
	platform, err := d.platformRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AccountNotInitialized, "Platform is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot get platform: %v", err)
		return nil, errorx.Unknown
	}

	return platform, nil
}

func (d *raffleDomain) loadRaffle(ctx context.Context, id uint64) (*entity.Raffle, error) {
	if id == 0 {
		return nil, errorx.New(errorx.InvalidRaffleID, "Invalid raffle id")
	}

	raffle, err := d.raffleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get raffle: %v", err)
		return nil, errorx.Unknown
	}

	return raffle, nil
}

func (d *raffleDomain) loadRaffleForAdmin(ctx context.Context, id uint64) (*entity.Raffle, error) {
	platform, err := d.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}

	if err := common.RequireAdmin(platform, xcontext.RequestWallet(ctx)); err != nil {
		return nil, err
	}

	return d.loadRaffle(ctx, id)
}

// purchaseAuditTag derives an opaque reference for the funding transfer so a
// purchase can be traced back from the ticket row.
func purchaseAuditTag(wallet string, raffleID, startNumber uint64, now time.Time) []byte {
	tag := make([]byte, 0, 64)
	tag = append(tag, []byte(wallet)...)
	tag = binary.LittleEndian.AppendUint64(tag, raffleID)
	tag = binary.LittleEndian.AppendUint64(tag, startNumber)
	tag = binary.LittleEndian.AppendUint64(tag, uint64(now.Unix()))

	return crypto.Hash(tag)
}
