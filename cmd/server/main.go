package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/joho/godotenv"
	"github.com/ksred/liquidity-api/internal/auth"
	"github.com/ksred/liquidity-api/internal/chain"
	"github.com/ksred/liquidity-api/internal/config"
	"github.com/ksred/liquidity-api/internal/database"
	"github.com/ksred/liquidity-api/internal/execution"
	"github.com/ksred/liquidity-api/internal/lp"
	"github.com/ksred/liquidity-api/internal/quote"
	"github.com/ksred/liquidity-api/internal/settlement"
	"github.com/ksred/liquidity-api/internal/trade"
	"github.com/ksred/liquidity-api/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the liquidity provider API server with graceful
// shutdown support. The execution strategy is resolved exactly once here and
// injected into the facade; nothing swaps it at runtime.
func main() {
	if err := godotenv.Load(); err != nil {
		zlog.Debug().Msg("no .env file found, relying on environment")
	}

	cfg := config.MustLoad()

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// Resolve the process-wide execution strategy from the chain config
	chainClient := chain.NewJSONRPCClient(cfg.Chain.JSONRPCURL)
	strategy, err := execution.Select(cfg.Chain, chainClient)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to select execution strategy")
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(cfg.Auth.JWTSecret)
	authHandlers := auth.NewGinHandlers(authService)
	// Register test credentials
	authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret)

	quoteService := quote.NewService(db)
	tradeService := trade.NewService(db, quoteService, strategy)
	settlementService := settlement.NewService(db)

	lpService := lp.NewService(quoteService, tradeService, settlementService, strategy)
	lpHandlers := lp.NewGinHandlers(lpService)

	// Create and start settlement processor
	settlementProcessor := settlement.NewProcessor(settlementService)
	processorCtx, processorCancel := context.WithCancel(context.Background())
	defer processorCancel()

	go settlementProcessor.Start(processorCtx)

	// Setup middleware
	router.Use(middleware.RateLimit())

	// Setup API routes
	setupRoutes(router, cfg.Auth.JWTSecret, authHandlers, lpHandlers)

	// Create server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers
// It groups routes by functionality and applies appropriate middleware:
// - Auth routes: Public endpoints for authentication
// - Client routes: Protected by JWT authentication
// - Internal routes: Protected by internal network authentication
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	lpHandlers *lp.GinHandlers,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Counterparty-facing routes
		client := v1.Group("")
		client.Use(middleware.JWTAuth(jwtSecret))
		{
			client.GET("/lp", lpHandlers.LPDetailsHandler())
			client.POST("/quotes", lpHandlers.CreateQuoteHandler())
			client.POST("/trades", lpHandlers.TradeHandler())
			client.GET("/trades/:trade_id", lpHandlers.TradeInfoHandler())
		}

		// Internal routes (should be protected by internal network)
		internal := v1.Group("/internal")
		internal.Use(middleware.InternalAuth(jwtSecret))
		{
			internal.GET("/debts", lpHandlers.GetDebtHandler())
			internal.POST("/debts/:debt_id/settle", lpHandlers.SettleHandler())
		}
	}
}
