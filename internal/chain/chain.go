package chain

import (
	"context"
	"math/big"
	"time"
)

// Payment is the result of verifying a claimed transaction against live
// chain state. The amount is measured from the ledger, never taken from the
// client, and is scoped to a single request.
type Payment struct {
	Chain        string
	Payer        string // best effort; empty when the chain does not expose it
	Receiver     string
	NativeAmount *big.Int // smallest unit of the chain's native asset
	ConfirmedAt  time.Time
}

// Verifier confirms that a claimed transaction reference actually paid the
// configured receiver, one implementation per supported chain.
type Verifier interface {
	// ID is the chain identifier used in routes and the replay ledger.
	ID() string
	// AssetID is the price-feed identifier of the chain's native asset.
	AssetID() string
	// Decimals is the number of smallest-unit decimals of the native asset.
	Decimals() uint8
	// Verify resolves the transaction at the chain's confirmed level and
	// returns the receiver's strictly positive balance delta.
	Verify(ctx context.Context, reference string) (*Payment, error)
}

// Receipt is the terminal artifact of a successful distribution.
type Receipt struct {
	Signature   string
	Tokens      uint64
	Destination string
}

// Registry holds the configured verifiers keyed by chain id. Chains whose
// credentials are absent from the configuration are simply never registered.
type Registry struct {
	verifiers map[string]Verifier
	ids       []string
}

func NewRegistry() *Registry {
	return &Registry{verifiers: make(map[string]Verifier)}
}

func (r *Registry) Register(v Verifier) {
	if _, ok := r.verifiers[v.ID()]; !ok {
		r.ids = append(r.ids, v.ID())
	}
	r.verifiers[v.ID()] = v
}

func (r *Registry) Lookup(id string) (Verifier, bool) {
	v, ok := r.verifiers[id]
	return v, ok
}

// IDs returns the registered chain ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}
