package common

import (
	"time"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/pkg/errorx"
	"github.com/payroll-lab/backend/pkg/safemath"
)

// RequireAdmin rejects any caller other than the current platform admin.
func RequireAdmin(platform *entity.Platform, caller string) error {
	if platform.Admin != caller {
		return errorx.New(errorx.Unauthorized, "Only the platform admin can perform this action")
	}

	return nil
}

func RequirePlatformActive(platform *entity.Platform) error {
	if platform.IsPaused {
		return errorx.New(errorx.PlatformPaused, "Platform is paused")
	}

	return nil
}

// RequireRaffleActive rejects sales on a paused, ended, or drawn raffle.
func RequireRaffleActive(raffle *entity.Raffle, now time.Time) error {
	if raffle.IsPaused {
		return errorx.New(errorx.RaffleAlreadyPaused, "Raffle is paused")
	}

	if !raffle.IsActive(now) {
		return errorx.New(errorx.RaffleEnded, "Raffle has ended")
	}

	return nil
}

// RequireNotBlacklisted accepts a nil entry, which means the wallet has never
// been blacklisted.
func RequireNotBlacklisted(entry *entity.BlacklistEntry) error {
	if entry != nil && entry.IsActive {
		return errorx.New(errorx.WalletBlacklisted, "Wallet is blacklisted")
	}

	return nil
}

func RequireNotRateLimited(
	stats *entity.UserStats, now time.Time, config *entity.SecurityConfig,
) error {
	if !config.RateLimitingEnabled {
		return nil
	}

	cooldown := time.Duration(config.RateLimitSeconds) * time.Second
	if stats.IsRateLimited(now, cooldown) {
		return errorx.New(errorx.RateLimitExceeded, "Too many purchases, please wait before buying again")
	}

	return nil
}

// RequireTicketLimit checks the per-wallet cap. A cap of zero means unlimited.
func RequireTicketLimit(currentTickets, requested, maxPerWallet uint64) error {
	if maxPerWallet == 0 {
		return nil
	}

	total, err := safemath.Add(currentTickets, requested)
	if err != nil {
		return err
	}

	if total > maxPerWallet {
		return errorx.New(errorx.MaxTicketsPerWalletExceeded,
			"Purchase would exceed the per-wallet ticket limit")
	}

	return nil
}

func ValidateRaffleParams(
	prizeAmount, ticketPrice, maxTickets uint64,
	endTime, now time.Time,
	isFree bool,
) error {
	if prizeAmount < MinPrizeAmount {
		return errorx.New(errorx.PrizeAmountBelowMin, "Prize amount is below the minimum")
	}

	if prizeAmount > MaxPrizeAmount {
		return errorx.New(errorx.PrizeAmountExceedsMax, "Prize amount exceeds the maximum")
	}

	if !isFree {
		if ticketPrice < MinTicketPrice {
			return errorx.New(errorx.TicketPriceBelowMin, "Ticket price is below the minimum")
		}

		if ticketPrice > MaxTicketPrice {
			return errorx.New(errorx.TicketPriceExceedsMax, "Ticket price exceeds the maximum")
		}
	}

	if maxTickets == 0 || maxTickets > MaxTicketsPerRaffle {
		return errorx.New(errorx.InvalidTicketQuantity, "Invalid maximum ticket supply")
	}

	duration := endTime.Sub(now)
	if duration < MinRaffleDuration {
		return errorx.New(errorx.DurationTooShort, "Raffle duration is too short")
	}

	if duration > MaxRaffleDuration {
		return errorx.New(errorx.DurationTooLong, "Raffle duration is too long")
	}

	return nil
}

func ValidateTicketPurchase(raffle *entity.Raffle, quantity uint64, now time.Time) error {
	if quantity == 0 {
		return errorx.New(errorx.InvalidTicketQuantity, "Quantity must be positive")
	}

	if raffle.IsDrawn {
		return errorx.New(errorx.RaffleAlreadyDrawn, "Raffle winner has already been drawn")
	}

	if raffle.HasEnded(now) {
		return errorx.New(errorx.RaffleEnded, "Raffle has ended")
	}

	if raffle.RemainingTickets() < quantity {
		return errorx.New(errorx.NotEnoughTickets, "Not enough tickets remaining")
	}

	return nil
}

func ValidateDrawConditions(
	raffle *entity.Raffle,
	now time.Time,
	currentHeight uint64,
	config *entity.SecurityConfig,
) error {
	if raffle.IsDrawn {
		return errorx.New(errorx.RaffleAlreadyDrawn, "Raffle winner has already been drawn")
	}

	if !raffle.HasEnded(now) {
		return errorx.New(errorx.RaffleNotEnded, "Raffle has not ended yet")
	}

	if raffle.TicketsSold == 0 {
		return errorx.New(errorx.NoTicketsSold, "No tickets were sold")
	}

	if raffle.DrawRequestedHeight > 0 {
		var confirmations uint64
		if currentHeight > raffle.DrawRequestedHeight {
			confirmations = currentHeight - raffle.DrawRequestedHeight
		}

		if confirmations < config.MinBlockConfirmations {
			return errorx.New(errorx.InsufficientConfirmations,
				"Not enough block confirmations since the draw request")
		}
	}

	return nil
}

func ValidateClaimConditions(raffle *entity.Raffle, claimer string) error {
	if !raffle.IsDrawn {
		return errorx.New(errorx.RaffleNotDrawn, "Raffle winner has not been drawn yet")
	}

	if raffle.IsClaimed {
		return errorx.New(errorx.PrizeAlreadyClaimed, "Prize has already been claimed")
	}

	if !raffle.Winner.Valid || raffle.Winner.String != claimer {
		return errorx.New(errorx.NotTheWinner, "Caller is not the raffle winner")
	}

	return nil
}
