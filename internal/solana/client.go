package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps a Solana RPC connection together with the custodial reserve
// identities. The signing key is loaded once at construction and held for
// the process lifetime; there is no rotation path.
type Client struct {
	rpc      *rpc.Client
	signer   solana.PrivateKey
	reserve  solana.PublicKey // reserve SPL token account
	mint     solana.PublicKey
	receiver solana.PublicKey

	confirmTimeout  time.Duration
	confirmInterval time.Duration

	// accountExists reports whether an account is present on chain. Held
	// as a field so destination resolution can be exercised without an RPC
	// node behind it.
	accountExists func(ctx context.Context, account solana.PublicKey) (bool, error)
}

// New builds a client from configuration strings. Address parsing failures
// here are configuration defects and must abort startup.
func New(rpcURL, keypairPath, reserveTokenAccount, tokenMint, receiver string) (*Client, error) {
	signer, err := solana.PrivateKeyFromSolanaKeygenFile(keypairPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reserve keypair from %s: %w", keypairPath, err)
	}
	reservePk, err := solana.PublicKeyFromBase58(reserveTokenAccount)
	if err != nil {
		return nil, fmt.Errorf("invalid reserve token account: %w", err)
	}
	mintPk, err := solana.PublicKeyFromBase58(tokenMint)
	if err != nil {
		return nil, fmt.Errorf("invalid token mint address: %w", err)
	}
	receiverPk, err := solana.PublicKeyFromBase58(receiver)
	if err != nil {
		return nil, fmt.Errorf("invalid receiver address: %w", err)
	}

	c := &Client{
		rpc:             rpc.New(rpcURL),
		signer:          signer,
		reserve:         reservePk,
		mint:            mintPk,
		receiver:        receiverPk,
		confirmTimeout:  60 * time.Second,
		confirmInterval: 2 * time.Second,
	}
	c.accountExists = c.rpcAccountExists
	return c, nil
}

func (c *Client) rpcAccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	_, err := c.rpc.GetAccountInfo(ctx, account)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// SignerAddress returns the reserve authority's public key.
func (c *Client) SignerAddress() string {
	return c.signer.PublicKey().String()
}

// ReceiverAddress returns the configured payment receiver.
func (c *Client) ReceiverAddress() string {
	return c.receiver.String()
}

// NodeInfo reports the RPC node's version and current slot for health
// checks. Both reads are best effort.
func (c *Client) NodeInfo(ctx context.Context) (version string, slot uint64) {
	if out, err := c.rpc.GetVersion(ctx); err == nil && out != nil {
		version = out.SolanaCore
	}
	if s, err := c.rpc.GetSlot(ctx, rpc.CommitmentConfirmed); err == nil {
		slot = s
	}
	return version, slot
}
