package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wallet-gateway/config"
	"wallet-gateway/internal/adapter/gateway/opay"
	"wallet-gateway/internal/adapter/gateway/paystack"
	"wallet-gateway/internal/adapter/http/handler"
	"wallet-gateway/internal/adapter/storage/postgres"
	redisstore "wallet-gateway/internal/adapter/storage/redis"
	"wallet-gateway/internal/core/ports"
	"wallet-gateway/internal/service"
	"wallet-gateway/pkg/logger"
)

const (
	rateLimitMax    = 60
	rateLimitWindow = time.Minute
)

func main() {
	cfg, err := config.Load(os.Getenv("WG_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	redisClient, err := redisstore.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	// Storage
	txRepo := postgres.NewTransactionRepo(pool)
	walletRepo := postgres.NewWalletRepo(pool)
	profileRepo := postgres.NewProfileRepo(pool)
	anomalyRepo := postgres.NewAnomalyRepo(pool)
	transactor := postgres.NewTransactor(pool)
	rateLimitStore := redisstore.NewRateLimitStore(redisClient)

	// Gateways
	opayClient := opay.NewClient(cfg.OPay)
	paystackClient := paystack.NewClient(cfg.Paystack)

	// Services
	fees := service.NewFeeSchedule(cfg.Payments)
	depositSvc := service.NewDepositSvc(
		[]ports.GatewayClient{opayClient, paystackClient},
		cfg.Payments.DefaultGateway,
		txRepo, anomalyRepo, fees,
		decimal.NewFromFloat(cfg.Payments.MinDeposit),
		log,
	)
	settlementSvc := service.NewSettlementSvc(txRepo, walletRepo, profileRepo, anomalyRepo, transactor, log)
	withdrawalSvc := service.NewWithdrawalSvc(
		profileRepo, walletRepo, txRepo, anomalyRepo,
		service.NewArgon2PinHasher(), fees,
		decimal.NewFromFloat(cfg.Payments.MinWithdrawal),
		log,
	)
	tokenSvc := service.NewJWTService(cfg.JWT)

	// HTTP
	router := handler.NewRouter(handler.RouterDeps{
		Deposit:    handler.NewDepositHandler(depositSvc),
		Withdrawal: handler.NewWithdrawalHandler(withdrawalSvc),
		Webhooks: []*handler.WebhookHandler{
			handler.NewWebhookHandler(opayClient, settlementSvc, log),
			handler.NewWebhookHandler(paystackClient, settlementSvc, log),
		},
		Health: handler.NewHealthHandler(
			postgres.NewHealthChecker(pool),
			redisstore.NewHealthChecker(redisClient),
		),
		Tokens:          tokenSvc,
		RateLimit:       rateLimitStore,
		RateLimitMax:    rateLimitMax,
		RateLimitWindow: rateLimitWindow,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
