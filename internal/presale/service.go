package presale

import (
	"context"
	"log"

	"presale/internal/allocation"
	"presale/internal/chain"
	"presale/internal/model"
	"presale/internal/solana"
)

// Oracle quotes the USD price of a chain's native asset.
type Oracle interface {
	USDPrice(ctx context.Context, assetID string) (float64, error)
}

// Distributor moves tokens out of the custodial reserve.
type Distributor interface {
	// ValidateOwner rejects a destination owner whose address does not
	// parse, without side effects.
	ValidateOwner(destinationOwner string) error
	Distribute(ctx context.Context, destinationOwner string, tokens uint64) (*chain.Receipt, error)
}

// Ledger is the durable set of consumed payment references.
type Ledger interface {
	Consume(chainID, reference, buyer string) error
	RecordReceipt(chainID, reference, signature string, tokens uint64) error
}

// ReserveReader reads the reserve's live balance and mint decimals.
type ReserveReader interface {
	ReserveState(ctx context.Context) (*solana.ReserveState, error)
}

// Notifier announces completed purchases. Implementations must be best
// effort; a notification failure never fails the purchase.
type Notifier interface {
	AnnouncePurchase(chainID string, tokens uint64, signature string)
}

// Service composes the payment pipeline: verify the claimed transaction
// against the chain, quote the asset, convert to an allocation, burn the
// reference, distribute from the reserve.
type Service struct {
	verifiers   *chain.Registry
	oracle      Oracle
	calc        *allocation.Calculator
	distributor Distributor
	ledger      Ledger
	reserve     ReserveReader
	notifier    Notifier
	target      uint64
}

func NewService(
	verifiers *chain.Registry,
	oracle Oracle,
	calc *allocation.Calculator,
	distributor Distributor,
	ledger Ledger,
	reserve ReserveReader,
	target uint64,
) *Service {
	return &Service{
		verifiers:   verifiers,
		oracle:      oracle,
		calc:        calc,
		distributor: distributor,
		ledger:      ledger,
		reserve:     reserve,
		target:      target,
	}
}

// SetNotifier attaches an optional purchase notifier.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// Chains returns the ids of the configured payment chains.
func (s *Service) Chains() []string { return s.verifiers.IDs() }

// ProcessPayment runs the full pipeline for one claimed payment. The
// reference is consumed only after the allocation is known to be positive,
// so every earlier failure leaves no state behind; a crash between consuming
// and distributing fails closed (reference burned, no tokens moved).
func (s *Service) ProcessPayment(ctx context.Context, chainID, reference, buyer string) (*chain.Receipt, error) {
	verifier, ok := s.verifiers.Lookup(chainID)
	if !ok {
		return nil, model.ErrUnsupportedChain
	}

	// Reject a malformed destination up front: once the reference is
	// consumed it can never be redeemed again, so no input error may get
	// that far.
	if err := s.distributor.ValidateOwner(buyer); err != nil {
		return nil, err
	}

	payment, err := verifier.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	// Re-quoted per request: a cached price could be gamed by timing a
	// deposit against a historical dip.
	price, err := s.oracle.USDPrice(ctx, verifier.AssetID())
	if err != nil {
		return nil, err
	}

	fiat := allocation.FiatValue(payment.NativeAmount, verifier.Decimals(), price)
	tokens := s.calc.Allocate(fiat)
	if tokens < 1 {
		return nil, model.ErrAllocationTooSmall
	}

	if err := s.ledger.Consume(chainID, reference, buyer); err != nil {
		return nil, err
	}

	receipt, err := s.distributor.Distribute(ctx, buyer, tokens)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.RecordReceipt(chainID, reference, receipt.Signature, receipt.Tokens); err != nil {
		// The distribution already landed; losing the receipt row only
		// degrades reconciliation, so do not fail the request.
		log.Printf("failed to record receipt for %s/%s: %v", chainID, reference, err)
	}

	if s.notifier != nil {
		s.notifier.AnnouncePurchase(chainID, receipt.Tokens, receipt.Signature)
	}

	return receipt, nil
}
