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

	"github.com/Jayasurya1108/newRag/internal/adapter/llm"
	"github.com/Jayasurya1108/newRag/internal/auth"
	"github.com/Jayasurya1108/newRag/internal/config"
	"github.com/Jayasurya1108/newRag/internal/retrieval"
	"github.com/Jayasurya1108/newRag/internal/session"
	"github.com/Jayasurya1108/newRag/internal/store"
	transport "github.com/Jayasurya1108/newRag/internal/transport/http"
	"github.com/Jayasurya1108/newRag/internal/transport/ws"
	"github.com/Jayasurya1108/newRag/policy"
)

func main() {
	// Load configuration; missing secrets halt startup before serving.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	log.Printf("Starting chat service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Model API: %s (%s)", cfg.LLMBaseURL, cfg.LLMModel)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize model client
	llmClient := llm.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)

	// Initialize submission guard
	ctx := context.Background()
	guard, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize hub for the live turn feed
	hub := ws.NewHub()
	go hub.Run()

	// Initialize core services
	authSvc := auth.NewService(db)
	retriever := retrieval.NewRetriever(db)
	sessions := session.NewManager(db, retriever, llmClient, hub, session.Options{
		RetrieveLimit:    cfg.RetrieveLimit,
		ContextCharLimit: cfg.ContextCharLimit,
	})

	wsServer := ws.NewServer(hub, sessions)
	server := transport.NewServer(authSvc, sessions, db, guard, wsServer)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat service started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat service...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat service stopped")
}
