package main

import (
	"log"
	"net/http"

	"presale/internal/allocation"
	"presale/internal/chain"
	"presale/internal/config"
	"presale/internal/database"
	"presale/internal/eth"
	"presale/internal/handler"
	"presale/internal/middleware"
	"presale/internal/notify"
	"presale/internal/oracle"
	"presale/internal/presale"
	"presale/internal/solana"
	"presale/internal/ton"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration; a partially configured service must not start
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the consumed-payment ledger
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Base chain: Solana verifier + reserve distributor
	sol, err := solana.New(
		cfg.Solana.RPCURL,
		cfg.Solana.KeypairPath,
		cfg.Solana.ReserveTokenAccount,
		cfg.Solana.TokenMint,
		cfg.Solana.Receiver,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Solana client: %v", err)
	}

	registry := chain.NewRegistry()
	registry.Register(sol)

	// Secondary chains join the registry only when their credentials are
	// configured; absence simply omits the route.
	if cfg.Eth.RPCURL != "" && cfg.Eth.Receiver != "" {
		ethVerifier, err := eth.New(cfg.Eth.RPCURL, cfg.Eth.Receiver)
		if err != nil {
			log.Fatalf("Failed to initialize ETH verifier: %v", err)
		}
		registry.Register(ethVerifier)
	}
	if cfg.TON.Receiver != "" {
		tonVerifier, err := ton.New(cfg.TON.APIKey, cfg.TON.Receiver, cfg.TON.Testnet)
		if err != nil {
			log.Fatalf("Failed to initialize TON verifier: %v", err)
		}
		registry.Register(tonVerifier)
	}

	calc, err := allocation.NewCalculator(cfg.Sale.UnitPrice)
	if err != nil {
		log.Fatalf("Invalid token price: %v", err)
	}

	svc := presale.NewService(registry, oracle.NewClient(), calc, sol, db, sol, cfg.Sale.Target)

	if cfg.Telegram.BotToken != "" {
		notifier, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Printf("Telegram notifier disabled: %v", err)
		} else {
			svc.SetNotifier(notifier)
		}
	}

	h := handler.NewHandler(svc, sol)

	router := setupRouter(h, cfg)

	log.Printf("Presale backend listening on port %s (chains: %v)", cfg.Server.Port, registry.IDs())
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(h *handler.Handler, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(gin.Recovery())
	router.Use(middleware.Cors(cfg.Server.Origin))
	router.Use(middleware.BodyLimit(1 << 20))

	rateLimiter := middleware.NewIPRateLimiter(cfg.RateLimit)
	router.Use(rateLimiter.RateLimit())

	router.GET("/api/health", h.Health)
	router.GET("/stats", h.Stats)
	router.POST("/pay/:chain", h.Pay)

	return router
}
