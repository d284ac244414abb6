package randomness

import "github.com/payroll-lab/backend/internal/entity"

// Input carries every entropy field available at draw time.
type Input struct {
	Height       uint64
	Timestamp    int64
	RaffleID     uint64
	BlockEntropy []byte
	TicketsSold  uint64
	VrfResult    []byte
}

// Source maps draw-time entropy to a winning ticket number in
// [0, TicketsSold).
type Source interface {
	WinningTicket(input Input) (uint64, error)
}

// ForConfig selects the randomness source the security config demands.
func ForConfig(config *entity.SecurityConfig) Source {
	if config.VrfRequired {
		return NewVrfSource()
	}

	return NewEntropySource()
}
