package domain

import (
	"time"

	"github.com/payroll-lab/backend/internal/entity"
	"github.com/payroll-lab/backend/internal/model"
)

func convertPlatform(platform *entity.Platform) model.Platform {
	resp := model.Platform{
		Admin:              platform.Admin,
		TotalRaffles:       platform.TotalRaffles,
		TotalFeesCollected: platform.TotalFeesCollected,
		TotalPrizesPaid:    platform.TotalPrizesPaid,
		IsPaused:           platform.IsPaused,
		FeeBps:             platform.FeeBps,
		BlacklistCount:     platform.BlacklistCount,
	}

	if platform.PendingAdmin.Valid {
		resp.PendingAdmin = platform.PendingAdmin.String
		resp.AdminTransferInitiatedAt = platform.AdminTransferInitiatedAt.Format(time.RFC3339)
	}

	if platform.PausedBy.Valid {
		resp.PausedBy = platform.PausedBy.String
	}

	return resp
}

func convertSecurityConfig(config *entity.SecurityConfig) model.SecurityConfig {
	return model.SecurityConfig{
		RateLimitSeconds:      config.RateLimitSeconds,
		RateLimitingEnabled:   config.RateLimitingEnabled,
		BlacklistEnabled:      config.BlacklistEnabled,
		VrfRequired:           config.VrfRequired,
		MinBlockConfirmations: config.MinBlockConfirmations,
		MaxTicketsPerWallet:   config.MaxTicketsPerWallet,
		UpdatedBy:             config.UpdatedBy,
	}
}

func convertRaffle(raffle *entity.Raffle) model.Raffle {
	resp := model.Raffle{
		ID:                  raffle.ID,
		Admin:               raffle.Admin,
		PrizeAmount:         raffle.PrizeAmount,
		TicketPrice:         raffle.TicketPrice,
		MaxTickets:          raffle.MaxTickets,
		TicketsSold:         raffle.TicketsSold,
		MaxTicketsPerWallet: raffle.MaxTicketsPerWallet,
		EndTime:             raffle.EndTime.Format(time.RFC3339),
		IsFree:              raffle.IsFree,
		IsDrawn:             raffle.IsDrawn,
		IsPaused:            raffle.IsPaused,
		IsClaimed:           raffle.IsClaimed,
		WinningTicket:       raffle.WinningTicket,
		FeesCollected:       raffle.FeesCollected,
	}

	if raffle.Winner.Valid {
		resp.Winner = raffle.Winner.String
	}

	return resp
}

func convertTicket(ticket *entity.Ticket) model.Ticket {
	return model.Ticket{
		ID:          ticket.ID,
		RaffleID:    ticket.RaffleID,
		Owner:       ticket.Owner,
		StartNumber: ticket.StartNumber,
		Quantity:    ticket.Quantity,
		PurchasedAt: ticket.PurchasedAt.Format(time.RFC3339),
	}
}
