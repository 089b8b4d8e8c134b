package solana

import (
	"context"
	"fmt"
	"math/big"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"presale/internal/chain"
	"presale/internal/model"
)

// ValidateOwner checks the destination owner's address grammar without
// touching the chain. Callers use it to reject bad input before any state
// change; Distribute re-parses regardless.
func (c *Client) ValidateOwner(destinationOwner string) error {
	if _, err := solana.PublicKeyFromBase58(destinationOwner); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}
	return nil
}

// Distribute transfers the allocated token amount from the custodial reserve
// to the buyer's associated token account. This is the only persisted state
// change in the pipeline: it permanently decreases the reserve balance. A
// failed or timed-out distribution is never retried here; a blind retry
// could double-spend the reserve if the original transfer landed.
func (c *Client) Distribute(ctx context.Context, destinationOwner string, tokens uint64) (*chain.Receipt, error) {
	if tokens < 1 {
		return nil, model.ErrZeroAllocation
	}
	owner, err := solana.PublicKeyFromBase58(destinationOwner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidAddress, err)
	}

	// Decimals come from the mint's on-chain metadata every time; mint
	// configuration can change independently of this service.
	decimals, err := c.mintDecimals(ctx)
	if err != nil {
		return nil, err
	}

	raw := ScaleToBaseUnits(tokens, decimals)
	if !raw.IsUint64() {
		return nil, fmt.Errorf("%w: scaled amount exceeds u64 token range", model.ErrSubmissionFailed)
	}

	destination, createInstrs, err := c.resolveDestination(ctx, owner)
	if err != nil {
		return nil, err
	}

	transfer := token.NewTransferCheckedInstruction(
		raw.Uint64(),
		decimals,
		c.reserve,
		c.mint,
		destination,
		c.signer.PublicKey(),
		nil,
	).Build()
	instrs := append(createInstrs, transfer)

	// A fresh blockhash bounds the replay window of the signed transaction.
	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("%w: blockhash fetch failed: %v", model.ErrSubmissionFailed, err)
	}

	tx, err := solana.NewTransaction(instrs, recent.Value.Blockhash, solana.TransactionPayer(c.signer.PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSubmissionFailed, err)
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.signer.PublicKey()) {
			return &c.signer
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: signing failed: %v", model.ErrSubmissionFailed, err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSubmissionFailed, err)
	}

	if err := c.awaitConfirmation(ctx, sig); err != nil {
		// Surface the signature with the error: the transfer may have
		// landed, and reconciliation needs something to look up.
		return nil, fmt.Errorf("%w (signature %s)", err, sig)
	}

	return &chain.Receipt{
		Signature:   sig.String(),
		Tokens:      tokens,
		Destination: destination.String(),
	}, nil
}

// ScaleToBaseUnits converts a whole-token count into the mint's smallest
// unit: tokens * 10^decimals, computed in exact integer arithmetic.
func ScaleToBaseUnits(tokens uint64, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Int).Mul(new(big.Int).SetUint64(tokens), scale)
}

func (c *Client) mintDecimals(ctx context.Context) (uint8, error) {
	out, err := c.rpc.GetAccountInfo(ctx, c.mint)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch mint account: %w", err)
	}
	if out == nil || out.Value == nil {
		return 0, fmt.Errorf("mint account %s not found", c.mint)
	}
	var m token.Mint
	if err := bin.NewBinDecoder(out.Value.Data.GetBinary()).Decode(&m); err != nil {
		return 0, fmt.Errorf("failed to decode mint account: %w", err)
	}
	return m.Decimals, nil
}

// resolveDestination derives the buyer's associated token account and, when
// it does not exist yet, returns the create instruction to prepend. The
// derivation is deterministic over (owner, mint), so a second call for the
// same owner yields the same account and no further creation.
func (c *Client) resolveDestination(ctx context.Context, owner solana.PublicKey) (solana.PublicKey, []solana.Instruction, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, c.mint)
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("failed to derive token account: %w", err)
	}

	exists, err := c.accountExists(ctx, ata)
	if err != nil {
		return solana.PublicKey{}, nil, fmt.Errorf("failed to check token account: %w", err)
	}
	if exists {
		return ata, nil, nil
	}

	create := associatedtokenaccount.NewCreateInstruction(c.signer.PublicKey(), owner, c.mint).Build()
	return ata, []solana.Instruction{create}, nil
}

func (c *Client) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	deadline := time.NewTimer(c.confirmTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(c.confirmInterval)
	defer tick.Stop()

	for {
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		if err == nil && out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("%w: transaction failed after submission", model.ErrSubmissionFailed)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return model.ErrConfirmationTimeout
		case <-deadline.C:
			return model.ErrConfirmationTimeout
		case <-tick.C:
		}
	}
}
