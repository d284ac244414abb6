package errorx

type Code int

const (
	// Authorization codes
	Unauthorized              Code = 6000
	InvalidAdminSignature     Code = 6001
	InvalidPendingAdmin       Code = 6002
	AdminTransferNotInitiated Code = 6003

	// Raffle state codes
	RaffleAlreadyDrawn  Code = 6100
	RaffleNotEnded      Code = 6101
	RaffleEnded         Code = 6102
	RaffleNotDrawn      Code = 6103
	RaffleAlreadyPaused Code = 6104
	RaffleNotPaused     Code = 6105
	InvalidRaffleID     Code = 6106

	// Ticket codes
	NotEnoughTickets            Code = 6200
	NoTicketsSold               Code = 6201
	NotWinningTicket            Code = 6202
	MaxTicketsPerWalletExceeded Code = 6203
	InvalidTicketQuantity       Code = 6204
	TicketAlreadyExists         Code = 6205

	// Prize and financial codes
	PrizeAlreadyClaimed    Code = 6300
	NotTheWinner           Code = 6301
	PrizeNotClaimed        Code = 6302
	WinnerAlreadySet       Code = 6303
	PrizeAmountExceedsMax  Code = 6304
	PrizeAmountBelowMin    Code = 6305
	TicketPriceBelowMin    Code = 6306
	TicketPriceExceedsMax  Code = 6307
	InsufficientVaultFunds Code = 6308

	// Security codes
	PlatformPaused            Code = 6400
	WalletBlacklisted         Code = 6401
	RateLimitExceeded         Code = 6402
	ReentrancyDetected        Code = 6403
	TimelockNotExpired        Code = 6404
	TimelockRequired          Code = 6405
	InsufficientConfirmations Code = 6406

	// VRF codes
	VrfRequestPending     Code = 6500
	VrfRequestExpired     Code = 6501
	InvalidVrfProof       Code = 6502
	VrfCallbackMismatch   Code = 6503
	VrfResultNotAvailable Code = 6504

	// Math and validation codes
	MathOverflow       Code = 6600
	MathUnderflow      Code = 6601
	DivisionByZero     Code = 6602
	InvalidTimestamp   Code = 6603
	DurationTooShort   Code = 6604
	DurationTooLong    Code = 6605
	InvalidAccountData Code = 6606

	// Account codes
	AccountNotInitialized     Code = 6700
	AccountAlreadyInitialized Code = 6701
	InvalidAccountOwner       Code = 6702
	AccountDataMismatch       Code = 6703
	InvalidVault              Code = 6704

	// Common codes
	BadRequest Code = 100001
	NotFound   Code = 100004
)
