package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhutton/lodestar/internal/database"
	"github.com/mhutton/lodestar/internal/gemini"
	"github.com/mhutton/lodestar/internal/logging"
	"github.com/mhutton/lodestar/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("LODESTAR_LOG_LEVEL"))

	port := os.Getenv("LODESTAR_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("LODESTAR_DB_PATH")
	if dbPath == "" {
		dbPath = "lodestar.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	geminiCfg := gemini.DefaultConfig(os.Getenv("GEMINI_API_KEY"))
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		geminiCfg.Model = model
	}
	if geminiCfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, guide generation will fail")
	}

	cfg := server.Config{
		Gemini:          geminiCfg,
		VAPIDPublicKey:  os.Getenv("LODESTAR_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("LODESTAR_VAPID_PRIVATE_KEY"),
	}
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		logger.Info("VAPID keys not set, push notifications disabled")
	}

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:        ":" + port,
		Handler:     srv.Router(),
		ReadTimeout: 15 * time.Second,
		// Guide generation can hold a request open across provider retries.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Lodestar running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
