package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealwise/internal/api"
	"mealwise/internal/app"
	"mealwise/internal/config"
	"mealwise/internal/logging"
	"mealwise/internal/telegram"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		logging.New("info", "json").Fatal("Failed to load config", zap.Error(err))
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	ctx := context.Background()

	// 2. Open the store and load the planner
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize app", zap.Error(err))
	}
	defer a.Close()

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(a, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram Bot", zap.Error(err))
	}

	// Idle chats lose their shopping sessions after a day.
	janitor := time.NewTicker(time.Hour)
	defer janitor.Stop()
	go func() {
		for range janitor.C {
			if n := bot.CleanupSessions(); n > 0 {
				logger.Debug("Expired chat sessions removed", zap.Int("count", n))
			}
		}
	}()

	// 4. Start Server with Graceful Shutdown
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(a, bot, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Telegram Bot Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := router.Drain(ctxShutdown); err != nil {
		logger.Warn("Updates still running at shutdown", zap.Error(err))
	}
	if err := a.Save(ctxShutdown); err != nil {
		logger.Error("Failed to save planner on shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
