package randomness

import (
	"encoding/binary"

	"github.com/payroll-lab/backend/pkg/errorx"
)

// vrfSource extracts the winning ticket from an externally verified VRF
// output. The proof itself is checked off-process, only the result bytes
// arrive here.
type vrfSource struct{}

func NewVrfSource() *vrfSource {
	return &vrfSource{}
}

func (s *vrfSource) WinningTicket(input Input) (uint64, error) {
	if input.TicketsSold == 0 {
		return 0, errorx.New(errorx.NoTicketsSold, "No tickets were sold")
	}

	if len(input.VrfResult) == 0 {
		return 0, errorx.New(errorx.VrfResultNotAvailable, "VRF result is not available yet")
	}

	if len(input.VrfResult) < 8 {
		return 0, errorx.New(errorx.InvalidVrfProof, "VRF result is too short")
	}

	random := binary.LittleEndian.Uint64(input.VrfResult[:8])

	return random % input.TicketsSold, nil
}
