package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Sale      SaleConfig
	Solana    SolanaConfig
	Eth       EthConfig
	TON       TONConfig
	Telegram  TelegramConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Origin       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

// SaleConfig carries the sale parameters. UnitPrice is a fixed configuration
// value, not market data, and must be strictly positive.
type SaleConfig struct {
	UnitPrice *big.Rat
	// Target is the explicit sale target in whole tokens; 0 means "fall back
	// to the reserve's current remaining balance".
	Target uint64
}

type SolanaConfig struct {
	RPCURL              string
	KeypairPath         string
	ReserveTokenAccount string
	TokenMint           string
	Receiver            string
}

// EthConfig is optional; the EVM verifier is registered only when both
// fields are set.
type EthConfig struct {
	RPCURL   string
	Receiver string
}

// TONConfig is optional; the TON verifier is registered only when a receiver
// is set.
type TONConfig struct {
	APIKey   string
	Receiver string
	Testnet  bool
}

// TelegramConfig is optional; purchases are announced to the channel when
// both fields are set.
type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

type RateLimitConfig struct {
	RequestsPerSecond int
	BurstSize         int
}

// Load resolves configuration from the environment. A missing or malformed
// required variable is returned as an error and must abort startup; the
// service never runs partially configured.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Origin:       getEnv("ORIGIN", "*"),
			ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 15)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./presale.db"),
		},
		Solana: SolanaConfig{
			RPCURL:              os.Getenv("SOLANA_RPC_URL"),
			KeypairPath:         os.Getenv("PRESALE_KEYPAIR_PATH"),
			ReserveTokenAccount: os.Getenv("PRESALE_TOKEN_ACCOUNT"),
			TokenMint:           os.Getenv("TOKEN_MINT_ADDRESS"),
			Receiver:            os.Getenv("SOL_RECEIVER"),
		},
		Eth: EthConfig{
			RPCURL:   os.Getenv("ETH_RPC_URL"),
			Receiver: os.Getenv("ETH_RECEIVER"),
		},
		TON: TONConfig{
			APIKey:   os.Getenv("TON_API_KEY"),
			Receiver: os.Getenv("TON_RECEIVER"),
			Testnet:  getEnv("TON_NETWORK", "mainnet") == "testnet",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 5),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
	}

	for name, val := range map[string]string{
		"SOLANA_RPC_URL":        cfg.Solana.RPCURL,
		"PRESALE_KEYPAIR_PATH":  cfg.Solana.KeypairPath,
		"PRESALE_TOKEN_ACCOUNT": cfg.Solana.ReserveTokenAccount,
		"TOKEN_MINT_ADDRESS":    cfg.Solana.TokenMint,
		"SOL_RECEIVER":          cfg.Solana.Receiver,
	} {
		if strings.TrimSpace(val) == "" {
			return nil, fmt.Errorf("missing required env: %s", name)
		}
	}

	priceRaw := os.Getenv("PRICE_PER_TOKEN")
	if strings.TrimSpace(priceRaw) == "" {
		return nil, fmt.Errorf("missing required env: PRICE_PER_TOKEN")
	}
	price, ok := new(big.Rat).SetString(priceRaw)
	if !ok || price.Sign() <= 0 {
		return nil, fmt.Errorf("PRICE_PER_TOKEN must be a positive decimal, got %q", priceRaw)
	}
	cfg.Sale.UnitPrice = price

	if raw := os.Getenv("PRESALE_TARGET"); strings.TrimSpace(raw) != "" {
		target, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("PRESALE_TARGET must be a non-negative integer, got %q", raw)
		}
		cfg.Sale.Target = target
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatRaw := os.Getenv("TELEGRAM_CHAT_ID")
		chatID, err := strconv.ParseInt(chatRaw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer, got %q", chatRaw)
		}
		cfg.Telegram = TelegramConfig{BotToken: token, ChatID: chatID}
	}

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}
