package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/askpaper/internal/api"
	"github.com/liliang-cn/askpaper/internal/chat"
	"github.com/liliang-cn/askpaper/internal/chunker"
	"github.com/liliang-cn/askpaper/internal/config"
	"github.com/liliang-cn/askpaper/internal/extract"
	"github.com/liliang-cn/askpaper/internal/llm"
	applog "github.com/liliang-cn/askpaper/internal/logger"
	"github.com/liliang-cn/askpaper/internal/repository"
	"github.com/liliang-cn/askpaper/internal/service"
	"github.com/liliang-cn/askpaper/internal/summarizer"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := applog.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	printBanner()

	// Initialize cache backend
	ctx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := repository.Open(ctx, cfg.Cache)
	cancelInit()
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.String("backend", cfg.Cache.Backend), zap.Error(err))
	}
	defer store.Close()

	// Initialize LLM client
	gen, err := llm.New(cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LLM client", zap.Error(err))
	}

	chunks, err := chunker.New(cfg.Summarizer.ChunkSize, cfg.Summarizer.ChunkOverlap)
	if err != nil {
		logger.Fatal("Invalid chunking configuration", zap.Error(err))
	}

	// Initialize services
	paperService := service.NewPaperService(
		store,
		extract.New(cfg.Extract, logger),
		summarizer.NewService(gen, chunks, cfg.Summarizer.MapConcurrency, logger),
		cfg.Summarizer.MinTextChars,
		logger,
	)

	chatService := service.NewChatService(
		store,
		store,
		chat.NewResponder(gen, cfg.Chat.MaxContextChars),
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	router, err := api.SetupRouter(paperService, chatService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: cfg.Server.AllowOrigins,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to set up router", zap.Error(err))
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting AskPaper server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("cache", cfg.Cache.Backend),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("model", cfg.LLM.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func printBanner() {
	banner := `
    ___         __   ____
   /   |  _____/ /__/ __ \____ _____  ___  _____
  / /| | / ___/ //_/ /_/ / __ '/ __ \/ _ \/ ___/
 / ___ |(__  ) ,< / ____/ /_/ / /_/ /  __/ /
/_/  |_/____/_/|_/_/    \__,_/ .___/\___/_/
                            /_/
`

	fmt.Println(banner)
}
