package randomness

import (
	"encoding/binary"

	"github.com/payroll-lab/backend/pkg/crypto"
	"github.com/payroll-lab/backend/pkg/errorx"
)

// entropySource derives the winning ticket from chain observables. It is the
// fallback when no VRF proof is required. The result is fully deterministic
// for a given input, which makes draws auditable after the fact.
type entropySource struct{}

func NewEntropySource() *entropySource {
	return &entropySource{}
}

func (s *entropySource) WinningTicket(input Input) (uint64, error) {
	if input.TicketsSold == 0 {
		return 0, errorx.New(errorx.NoTicketsSold, "No tickets were sold")
	}

	seed := make([]byte, 0, 128)
	seed = binary.LittleEndian.AppendUint64(seed, input.Height)
	seed = binary.LittleEndian.AppendUint64(seed, uint64(input.Timestamp))
	seed = binary.LittleEndian.AppendUint64(seed, input.RaffleID)
	seed = append(seed, input.BlockEntropy...)
	seed = binary.LittleEndian.AppendUint64(seed, input.TicketsSold)

	// Three chained hash passes, each feeding its digest back into the seed.
	digest := crypto.Hash(seed)
	seed = append(seed, digest...)
	digest = crypto.Hash(seed)
	seed = append(seed, digest...)
	digest = crypto.Hash(seed)

	random := binary.LittleEndian.Uint64(digest[:8])

	return random % input.TicketsSold, nil
}
