package solana

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"presale/internal/chain"
	"presale/internal/model"
)

// ID, AssetID and Decimals satisfy chain.Verifier for the base chain.
func (c *Client) ID() string      { return "sol" }
func (c *Client) AssetID() string { return "solana" }
func (c *Client) Decimals() uint8 { return 9 }

// Verify resolves the claimed transaction at the confirmed commitment level
// and measures the receiver's lamport delta. The amount is derived solely
// from ledger state; a client-supplied amount is never trusted.
func (c *Client) Verify(ctx context.Context, reference string) (*chain.Payment, error) {
	sig, err := solana.SignatureFromBase58(reference)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed transaction signature", model.ErrTransactionNotFound)
	}

	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrTransactionNotFound, err)
	}
	if out == nil || out.Meta == nil {
		return nil, model.ErrTransactionNotFound
	}
	if out.Meta.Err != nil {
		return nil, fmt.Errorf("%w: transaction failed on chain", model.ErrNoNetPayment)
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	delta, err := receiverDelta(tx.Message.AccountKeys, out.Meta.PreBalances, out.Meta.PostBalances, c.receiver)
	if err != nil {
		return nil, err
	}

	payer := ""
	if len(tx.Message.AccountKeys) > 0 {
		payer = tx.Message.AccountKeys[0].String()
	}
	confirmedAt := time.Now().UTC()
	if out.BlockTime != nil {
		confirmedAt = out.BlockTime.Time().UTC()
	}

	return &chain.Payment{
		Chain:        c.ID(),
		Payer:        payer,
		Receiver:     c.receiver.String(),
		NativeAmount: big.NewInt(delta),
		ConfirmedAt:  confirmedAt,
	}, nil
}

// receiverDelta computes the receiver's strictly positive balance change
// within a single transaction as post-balance minus pre-balance. A missing
// receiver rejects transactions that merely exist but paid someone else; a
// non-positive delta rejects self-transfers, refunds and fee-only entries.
func receiverDelta(keys []solana.PublicKey, pre, post []uint64, receiver solana.PublicKey) (int64, error) {
	idx := -1
	for i, key := range keys {
		if key.Equals(receiver) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, model.ErrReceiverNotInvolved
	}
	if idx >= len(pre) || idx >= len(post) {
		return 0, fmt.Errorf("transaction meta missing balances for account index %d", idx)
	}

	delta := int64(post[idx]) - int64(pre[idx])
	if delta <= 0 {
		return 0, model.ErrNoNetPayment
	}
	return delta, nil
}
