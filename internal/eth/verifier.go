package eth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"presale/internal/chain"
	"presale/internal/model"
)

// Verifier confirms ETH payments to the configured receiver. An EVM node
// does not expose per-transaction balance deltas for an address, so the
// contract is enforced through receipt success, recipient match and a
// strictly positive transfer value. Internal transfers out of contracts are
// therefore rejected; the presale receiver is expected to be an EOA.
type Verifier struct {
	client   *ethclient.Client
	receiver common.Address
}

func New(rpcURL, receiver string) (*Verifier, error) {
	if !common.IsHexAddress(receiver) {
		return nil, fmt.Errorf("invalid ETH receiver address %q", receiver)
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ETH RPC: %w", err)
	}
	return &Verifier{client: client, receiver: common.HexToAddress(receiver)}, nil
}

func (v *Verifier) ID() string      { return "eth" }
func (v *Verifier) AssetID() string { return "ethereum" }
func (v *Verifier) Decimals() uint8 { return 18 }

func (v *Verifier) Verify(ctx context.Context, reference string) (*chain.Payment, error) {
	ref := strings.TrimPrefix(reference, "0x")
	if len(ref) != 64 {
		return nil, fmt.Errorf("%w: malformed transaction hash", model.ErrTransactionNotFound)
	}
	hash := common.HexToHash(reference)

	tx, pending, err := v.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: %v", model.ErrTransactionNotFound, err)
	}
	if pending {
		return nil, fmt.Errorf("%w: transaction not yet mined", model.ErrTransactionNotFound)
	}

	receipt, err := v.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTransactionNotFound, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction reverted", model.ErrNoNetPayment)
	}

	if tx.To() == nil || *tx.To() != v.receiver {
		return nil, model.ErrReceiverNotInvolved
	}
	if tx.Value() == nil || tx.Value().Sign() <= 0 {
		return nil, model.ErrNoNetPayment
	}

	payer := ""
	if sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx); err == nil {
		payer = sender.Hex()
	}

	confirmedAt := time.Now().UTC()
	if header, err := v.client.HeaderByNumber(ctx, receipt.BlockNumber); err == nil {
		confirmedAt = time.Unix(int64(header.Time), 0).UTC()
	}

	return &chain.Payment{
		Chain:        v.ID(),
		Payer:        payer,
		Receiver:     v.receiver.Hex(),
		NativeAmount: tx.Value(),
		ConfirmedAt:  confirmedAt,
	}, nil
}
