package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"club-lotto-backend/internal/common/config"
	"club-lotto-backend/internal/common/logger"
	"club-lotto-backend/internal/common/middleware"
	boardHttp "club-lotto-backend/internal/features/board/delivery/http"
	boardRepo "club-lotto-backend/internal/features/board/repository/postgres"
	boardService "club-lotto-backend/internal/features/board/service"
	gameHttp "club-lotto-backend/internal/features/game/delivery/http"
	gameRepo "club-lotto-backend/internal/features/game/repository/postgres"
	gameService "club-lotto-backend/internal/features/game/service"
	playerHttp "club-lotto-backend/internal/features/player/delivery/http"
	playerRepo "club-lotto-backend/internal/features/player/repository/postgres"
	playerService "club-lotto-backend/internal/features/player/service"
	walletHttp "club-lotto-backend/internal/features/wallet/delivery/http"
	walletRepo "club-lotto-backend/internal/features/wallet/repository/postgres"
	walletService "club-lotto-backend/internal/features/wallet/service"
	"club-lotto-backend/internal/platform/postgres"
	"club-lotto-backend/internal/platform/redis"
	"club-lotto-backend/internal/workers"
)

// @title           Club Lotto API
// @version         1.0
// @description     Game round and settlement engine for a weekly sports-club lottery.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued to a player or administrator, sent as "Bearer <token>"

// @tag.name games
// @tag.description Round lifecycle - opening, closing and settlement

// @tag.name boards
// @tag.description Board purchases and repeat-weeks renewal

// @tag.name wallet
// @tag.description MobilePay deposit requests and derived balances

// @tag.name players
// @tag.description Club member management

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: .env file not found: %v\n", err)
	}

	cfg := config.MustLoad()
	logger.Init("club-lotto-backend", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Int("pool_size", cfg.Lotto.PoolSize).
		Msg("Starting club lotto backend")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresClient.Migrate(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// The engine stays up without Redis; the settlement cache and close lock
	// fall back to database-only paths.
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, running without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	db := postgresClient.GetDB()
	playerRepository := playerRepo.NewPostgresRepository(db)
	gameRepository := gameRepo.NewPostgresRepository(db)
	boardRepository := boardRepo.NewPostgresRepository(db)
	walletRepository := walletRepo.NewPostgresRepository(db)

	playerSvc := playerService.NewPlayerService(playerRepository)
	walletSvc := walletService.NewWalletService(walletRepository, playerRepository)
	boardSvc := boardService.NewBoardService(postgresClient, boardRepository, gameRepository, playerRepository, walletRepository, cfg)
	gameSvc := gameService.NewGameService(postgresClient, gameRepository, boardRepository, boardSvc, redisClient, cfg)

	expirer := workers.NewTransactionExpirer(walletRepository, cfg)
	expirer.Start()
	defer expirer.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "club-lotto-backend",
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity(cfg.Auth.JWTSecret))
	{
		gameHttp.NewGameHandler(gameSvc).RegisterRoutes(v1)
		boardHttp.NewBoardHandler(boardSvc).RegisterRoutes(v1)
		walletHttp.NewWalletHandler(walletSvc).RegisterRoutes(v1)
		playerHttp.NewPlayerHandler(playerSvc).RegisterRoutes(v1)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
