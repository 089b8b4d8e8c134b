package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"presale/internal/model"
)

var (
	testReceiver = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	testPayer    = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	testOther    = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

func TestReceiverDeltaPositive(t *testing.T) {
	keys := []solana.PublicKey{testPayer, testReceiver}
	pre := []uint64{5_000_000_000, 1_000_000_000}
	post := []uint64{2_999_995_000, 3_000_000_000}

	delta, err := receiverDelta(keys, pre, post, testReceiver)
	require.NoError(t, err)
	require.Equal(t, int64(2_000_000_000), delta)
}

func TestReceiverDeltaReceiverAbsent(t *testing.T) {
	keys := []solana.PublicKey{testPayer, testOther}
	pre := []uint64{5_000_000_000, 0}
	post := []uint64{4_000_000_000, 1_000_000_000}

	_, err := receiverDelta(keys, pre, post, testReceiver)
	require.ErrorIs(t, err, model.ErrReceiverNotInvolved)
}

func TestReceiverDeltaNonPositive(t *testing.T) {
	keys := []solana.PublicKey{testPayer, testReceiver}

	// Fee-only involvement: balance unchanged.
	_, err := receiverDelta(keys, []uint64{10, 7}, []uint64{9, 7}, testReceiver)
	require.ErrorIs(t, err, model.ErrNoNetPayment)

	// Receiver paid out in this transaction.
	_, err = receiverDelta(keys, []uint64{10, 7}, []uint64{12, 5}, testReceiver)
	require.ErrorIs(t, err, model.ErrNoNetPayment)
}

func TestReceiverDeltaMissingBalances(t *testing.T) {
	keys := []solana.PublicKey{testPayer, testReceiver}
	_, err := receiverDelta(keys, []uint64{10}, []uint64{10}, testReceiver)
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrReceiverNotInvolved)
}
