package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/triviaquest/engine/internal/config"
	"github.com/triviaquest/engine/internal/game"
	"github.com/triviaquest/engine/internal/handlers"
	"github.com/triviaquest/engine/internal/logger"
	"github.com/triviaquest/engine/internal/middleware"
	"github.com/triviaquest/engine/internal/services"
	"github.com/triviaquest/engine/internal/services/events"
	"github.com/triviaquest/engine/internal/storage"
	"github.com/triviaquest/engine/pkg/quiz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Trivia Quest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"question_provider", cfg.QuestionProvider,
		"model_name", cfg.ModelName)

	var remote quiz.RemoteService
	switch cfg.QuestionProvider {
	case config.ProviderAnthropic:
		remote = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic question provider")
	case config.ProviderOpenAI:
		remote = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName, log)
		log.Info("Using OpenAI question provider")
	default:
		log.Info("No remote question provider configured, serving static pools only")
	}

	fallback := storage.NewLocalStorage(cfg.SaveDir, cfg.DataDir, log)
	if err := fallback.Ping(context.Background()); err != nil {
		log.Error("Failed to prepare local save directory", "error", err, "dir", cfg.SaveDir)
		os.Exit(1)
	}

	var store storage.Storage = fallback
	var broadcaster *events.Broadcaster
	var redisStore *storage.RedisStorage
	if cfg.RedisURL != "" {
		redisStore = storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
		storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := redisStore.WaitForConnection(storageCtx); err != nil {
			// Campaigns survive on local snapshots when Redis is down.
			log.Error("Failed to connect to Redis, using local snapshots", "error", err)
			redisStore = nil
		} else {
			log.Info("Storage connection established successfully")
			store = redisStore
			broadcaster = events.NewBroadcaster(redisStore.Client(), log)
		}
		storageCancel()
	}

	manager := game.NewManager(game.ManagerConfig{
		Store:            store,
		Fallback:         fallback,
		Remote:           remote,
		Broadcaster:      broadcaster,
		Logger:           log,
		AutosaveInterval: cfg.AutosaveInterval,
	})

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, cfg.QuestionProvider, log)
	mux.Handle("/health", healthHandler)

	campaignHandler := handlers.NewCampaignHandler(manager, log)
	mux.Handle("/v1/campaign", campaignHandler)
	mux.Handle("/v1/campaign/", campaignHandler)

	if redisStore != nil {
		eventsHandler := handlers.NewEventsHandler(redisStore.Client(), log)
		mux.Handle("/v1/events/campaign/", eventsHandler)
	}

	handler := middleware.Logger(log, mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout removed to enable streaming - event endpoints handle their own timeouts
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Flush every live campaign before the process exits
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 30*time.Second)
	manager.Shutdown(saveCtx)
	saveCancel()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
