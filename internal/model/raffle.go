package model

import "github.com/jellydator/validation"

type CreateRaffleRequest struct {
	// ID is optional, a snowflake id is generated when it is zero.
	ID                  uint64 `json:"id"`
	PrizeAmount         uint64 `json:"prize_amount"`
	TicketPrice         uint64 `json:"ticket_price"`
	MaxTickets          uint64 `json:"max_tickets"`
	EndTime             string `json:"end_time"`
	IsFree              bool   `json:"is_free"`
	MaxTicketsPerWallet uint64 `json:"max_tickets_per_wallet"`
}

func (r CreateRaffleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PrizeAmount, validation.Required),
		validation.Field(&r.MaxTickets, validation.Required),
		validation.Field(&r.EndTime, validation.Required, validation.Date("2006-01-02T15:04:05Z07:00")),
	)
}

type CreateRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetRaffleRequest struct {
	ID uint64 `json:"id" form:"id"`
}

type GetRaffleResponse struct {
	Raffle  Raffle   `json:"raffle"`
	Tickets []Ticket `json:"tickets"`
}

type BuyTicketRequest struct {
	RaffleID uint64 `json:"raffle_id"`
	Quantity uint64 `json:"quantity"`
}

func (r BuyTicketRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
		validation.Field(&r.Quantity, validation.Required),
	)
}

type BuyTicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type DrawWinnerRequest struct {
	RaffleID  uint64 `json:"raffle_id"`
	VrfResult []byte `json:"vrf_result,omitempty"`
}

func (r DrawWinnerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
	)
}

type DrawWinnerResponse struct {
	// Pending is true while the draw request waits for block confirmations.
	Pending       bool   `json:"pending"`
	WinningTicket uint64 `json:"winning_ticket,omitempty"`
}

type SetWinnerRequest struct {
	RaffleID uint64 `json:"raffle_id"`
	TicketID string `json:"ticket_id"`
}

func (r SetWinnerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
		validation.Field(&r.TicketID, validation.Required),
	)
}

type SetWinnerResponse struct {
	Winner string `json:"winner"`
}

type ClaimPrizeRequest struct {
	RaffleID uint64 `json:"raffle_id"`
}

func (r ClaimPrizeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
	)
}

type ClaimPrizeResponse struct {
	PrizeAmount uint64 `json:"prize_amount"`
}

type WithdrawProceedsRequest struct {
	RaffleID uint64 `json:"raffle_id"`
}

func (r WithdrawProceedsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
	)
}

type WithdrawProceedsResponse struct {
	Amount uint64 `json:"amount"`
}

type PauseRaffleRequest struct {
	RaffleID uint64 `json:"raffle_id"`
}

func (r PauseRaffleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
	)
}

type PauseRaffleResponse struct{}

type UnpauseRaffleRequest struct {
	RaffleID uint64 `json:"raffle_id"`
}

func (r UnpauseRaffleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RaffleID, validation.Required),
	)
}

type UnpauseRaffleResponse struct{}
