package presale

import (
	"context"
	"math"
	"math/big"
)

// Snapshot is the sale progress at a moment in time, computed fresh from
// the reserve's raw balance. It is never stored, so it cannot drift from
// the ledger the way a running counter does under concurrent distributions
// or restarts.
type Snapshot struct {
	Target    uint64
	Sold      uint64
	Remaining uint64
	Percent   float64
	Decimals  uint8
}

// Snapshot reads the reserve and derives sold/remaining/percent against the
// configured target. With no explicit target the current remaining amount
// stands in, meaning "100% remaining" until a target is configured.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	state, err := s.reserve.ReserveState(ctx)
	if err != nil {
		return nil, err
	}
	return computeSnapshot(state.RawBalance, state.Decimals, s.target), nil
}

func computeSnapshot(rawBalance *big.Int, decimals uint8, target uint64) *Snapshot {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	remaining := roundDiv(rawBalance, denom)

	t := target
	if t == 0 {
		t = remaining
	}

	var sold uint64
	if t > remaining {
		sold = t - remaining
	}

	pct := 0.0
	if t > 0 {
		pct = float64(sold) / float64(t) * 100
		pct = math.Max(0, math.Min(100, pct))
		pct = math.Round(pct*100) / 100
	}

	return &Snapshot{
		Target:    t,
		Sold:      sold,
		Remaining: remaining,
		Percent:   pct,
		Decimals:  decimals,
	}
}

// roundDiv computes round(n/d) in exact integer arithmetic for n >= 0.
func roundDiv(n, d *big.Int) uint64 {
	num := new(big.Int).Mul(n, big.NewInt(2))
	num.Add(num, d)
	den := new(big.Int).Mul(d, big.NewInt(2))
	num.Quo(num, den)
	if !num.IsUint64() {
		return math.MaxUint64
	}
	return num.Uint64()
}
