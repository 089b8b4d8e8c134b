package config

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SOLANA_RPC_URL", "http://localhost:8899")
	t.Setenv("PRESALE_KEYPAIR_PATH", "/tmp/reserve.json")
	t.Setenv("PRESALE_TOKEN_ACCOUNT", "AcctAcctAcctAcctAcctAcctAcctAcctAcctAcctAcc")
	t.Setenv("TOKEN_MINT_ADDRESS", "MintMintMintMintMintMintMintMintMintMintMin")
	t.Setenv("SOL_RECEIVER", "RecvRecvRecvRecvRecvRecvRecvRecvRecvRecvRec")
	t.Setenv("PRICE_PER_TOKEN", "0.01")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "*", cfg.Server.Origin)
	require.Equal(t, "./presale.db", cfg.Database.Path)
	require.Equal(t, uint64(0), cfg.Sale.Target)

	want, _ := new(big.Rat).SetString("0.01")
	require.Equal(t, 0, cfg.Sale.UnitPrice.Cmp(want))
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SOL_RECEIVER", "")

	_, err := Load()
	require.ErrorContains(t, err, "SOL_RECEIVER")
}

func TestLoadRejectsBadPrice(t *testing.T) {
	setRequiredEnv(t)

	for _, price := range []string{"0", "-1", "free"} {
		t.Setenv("PRICE_PER_TOKEN", price)
		_, err := Load()
		require.Error(t, err, "price=%s", price)
	}
}

func TestLoadTarget(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PRESALE_TARGET", "10000000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint64(10000000), cfg.Sale.Target)

	t.Setenv("PRESALE_TARGET", "lots")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadTelegramNeedsChatID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "-100123456")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, int64(-100123456), cfg.Telegram.ChatID)
}
