package solana

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"
)

// ReserveState is the reserve token account's live raw balance together
// with the mint's decimal precision.
type ReserveState struct {
	RawBalance *big.Int
	Decimals   uint8
}

// ReserveState reads the reserve balance and mint decimals directly from
// the ledger. The two reads are independent and read-only, so they run in
// parallel.
func (c *Client) ReserveState(ctx context.Context) (*ReserveState, error) {
	var (
		raw      *big.Int
		decimals uint8
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := c.rpc.GetTokenAccountBalance(ctx, c.reserve, rpc.CommitmentConfirmed)
		if err != nil {
			return fmt.Errorf("failed to read reserve balance: %w", err)
		}
		if out == nil || out.Value == nil {
			return fmt.Errorf("reserve token account %s not found", c.reserve)
		}
		amount, ok := new(big.Int).SetString(out.Value.Amount, 10)
		if !ok {
			return fmt.Errorf("unparseable reserve balance %q", out.Value.Amount)
		}
		raw = amount
		return nil
	})
	g.Go(func() error {
		d, err := c.mintDecimals(ctx)
		if err != nil {
			return err
		}
		decimals = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReserveState{RawBalance: raw, Decimals: decimals}, nil
}
