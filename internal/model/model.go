package model

// Platform is the API-facing view of the governance singleton.
type Platform struct {
	Admin                    string `json:"admin"`
	PendingAdmin             string `json:"pending_admin,omitempty"`
	AdminTransferInitiatedAt string `json:"admin_transfer_initiated_at,omitempty"`
	TotalRaffles             uint64 `json:"total_raffles"`
	TotalFeesCollected       uint64 `json:"total_fees_collected"`
	TotalPrizesPaid          uint64 `json:"total_prizes_paid"`
	IsPaused                 bool   `json:"is_paused"`
	PausedBy                 string `json:"paused_by,omitempty"`
	FeeBps                   uint16 `json:"fee_bps"`
	BlacklistCount           uint64 `json:"blacklist_count"`
}

type SecurityConfig struct {
	RateLimitSeconds      int64  `json:"rate_limit_seconds"`
	RateLimitingEnabled   bool   `json:"rate_limiting_enabled"`
	BlacklistEnabled      bool   `json:"blacklist_enabled"`
	VrfRequired           bool   `json:"vrf_required"`
	MinBlockConfirmations uint64 `json:"min_block_confirmations"`
	MaxTicketsPerWallet   uint64 `json:"max_tickets_per_wallet"`
	UpdatedBy             string `json:"updated_by,omitempty"`
}

type Raffle struct {
	ID                  uint64 `json:"id"`
	Admin               string `json:"admin"`
	PrizeAmount         uint64 `json:"prize_amount"`
	TicketPrice         uint64 `json:"ticket_price"`
	MaxTickets          uint64 `json:"max_tickets"`
	TicketsSold         uint64 `json:"tickets_sold"`
	MaxTicketsPerWallet uint64 `json:"max_tickets_per_wallet"`
	EndTime             string `json:"end_time"`
	IsFree              bool   `json:"is_free"`
	IsDrawn             bool   `json:"is_drawn"`
	IsPaused            bool   `json:"is_paused"`
	IsClaimed           bool   `json:"is_claimed"`
	WinningTicket       uint64 `json:"winning_ticket"`
	Winner              string `json:"winner,omitempty"`
	FeesCollected       uint64 `json:"fees_collected"`
}

type Ticket struct {
	ID          string `json:"id"`
	RaffleID    uint64 `json:"raffle_id"`
	Owner       string `json:"owner"`
	StartNumber uint64 `json:"start_number"`
	Quantity    uint64 `json:"quantity"`
	PurchasedAt string `json:"purchased_at"`
}

type UserStats struct {
	Wallet              string `json:"wallet"`
	TotalTicketsBought  uint64 `json:"total_tickets_bought"`
	TotalSpent          uint64 `json:"total_spent"`
	TotalWins           uint64 `json:"total_wins"`
	TotalWinnings       uint64 `json:"total_winnings"`
	RafflesParticipated uint64 `json:"raffles_participated"`
	IsFlagged           bool   `json:"is_flagged"`
}
