package allocation

import (
	"fmt"
	"math"
	"math/big"
)

// Calculator converts fiat amounts into whole-token allocations at a fixed
// unit price. The unit price is configuration, never market data.
type Calculator struct {
	unitPrice *big.Rat
}

// NewCalculator fails when the unit price is missing or not strictly
// positive; that is a configuration defect and must abort startup.
func NewCalculator(unitPrice *big.Rat) (*Calculator, error) {
	if unitPrice == nil || unitPrice.Sign() <= 0 {
		return nil, fmt.Errorf("unit price must be strictly positive")
	}
	return &Calculator{unitPrice: new(big.Rat).Set(unitPrice)}, nil
}

// Allocate computes floor(fiat / unitPrice). Floor, never round: the system
// must not allocate more tokens than the payment covers. Zero is a valid
// result meaning "payment too small"; rejecting it is the caller's job.
func (c *Calculator) Allocate(fiat *big.Rat) uint64 {
	if fiat == nil || fiat.Sign() <= 0 {
		return 0
	}
	q := new(big.Rat).Quo(fiat, c.unitPrice)
	// Both operands are positive, so truncation equals floor.
	floor := new(big.Int).Quo(q.Num(), q.Denom())
	if !floor.IsUint64() {
		return math.MaxUint64
	}
	return floor.Uint64()
}

// FiatValue converts a smallest-unit native amount into its exact USD value
// at the given price: nativeAmount / 10^decimals * usdPrice.
func FiatValue(nativeAmount *big.Int, decimals uint8, usdPrice float64) *big.Rat {
	price := new(big.Rat).SetFloat64(usdPrice)
	if price == nil {
		return new(big.Rat)
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	amount := new(big.Rat).SetFrac(nativeAmount, denom)
	return amount.Mul(amount, price)
}
