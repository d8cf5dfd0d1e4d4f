package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/iamasit07/puissance4/backend/internal/config"
	"github.com/iamasit07/puissance4/backend/internal/repository/redis"
	"github.com/iamasit07/puissance4/backend/internal/repository/store"
	"github.com/iamasit07/puissance4/backend/internal/service/cleanup"
	"github.com/iamasit07/puissance4/backend/internal/service/game"
	transportHttp "github.com/iamasit07/puissance4/backend/internal/transport/http"
	"github.com/iamasit07/puissance4/backend/internal/transport/http/middleware"
	"github.com/iamasit07/puissance4/backend/internal/transport/websocket"
	"github.com/iamasit07/puissance4/backend/pkg/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 1. Persistence
	db, err := store.Open(cfg.DBDriver, cfg.DatabaseURL, store.Options{
		MaxOpenConns:       cfg.DBMaxOpenConns,
		MaxIdleConns:       cfg.DBMaxIdleConns,
		ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
	})
	if err != nil {
		log.Fatalf("Database unavailable: %v", err)
	}
	defer db.Close()
	gameRepo := store.NewGameRepo(db)

	// 2. Services
	sessionManager := game.NewSessionManager(gameRepo, game.ManagerConfig{
		BotMoveDelay:      cfg.BotMoveDelay,
		SnapshotTTL:       cfg.SnapshotTTL,
		SessionTTL:        cfg.SessionTTL,
		DefaultDifficulty: cfg.BotDifficulty,
	})

	var snapshotCache *redis.SnapshotCache
	if client := redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword); client != nil {
		snapshotCache = redis.NewSnapshotCache(client)
		sessionManager.SetCache(snapshotCache)
		defer snapshotCache.Close()
	}

	connManager := websocket.NewConnectionManager()
	sessionManager.SetNotifier(connManager)

	seats := auth.NewSeatIssuer(cfg.JWTSecret, cfg.SeatTokenTTL)

	// 3. Background workers
	cleanupWorker := cleanup.NewWorker(sessionManager, 10*time.Minute)
	cleanupWorker.Start()

	// 4. Handlers
	gameHandler := transportHttp.NewGameHandler(sessionManager, seats, cfg.BoardRows, cfg.BoardColumns)
	if snapshotCache != nil {
		gameHandler.Cache = snapshotCache
	}
	wsHandler := websocket.NewHandler(connManager, sessionManager, seats, cfg.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	transportHttp.RegisterRoutes(router, transportHttp.Handlers{
		Games:     gameHandler,
		History:   transportHttp.NewHistoryHandler(gameRepo),
		Health:    &transportHttp.HealthHandler{DB: db.DB, SessionManager: sessionManager},
		Watch:     transportHttp.NewWatchHandler(sessionManager, connManager),
		WebSocket: wsHandler.HandleWebSocket,
		Seats:     seats,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s (%dx%d board, %s store)", cfg.Port, cfg.BoardRows, cfg.BoardColumns, db.Driver())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	connManager.CloseAll()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	cleanupWorker.Stop()

	// let pending game saves reach the database before it closes
	sessionManager.Wait()

	log.Println("Server exited gracefully")
}
