package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nba-chat/internal/agent"
	"nba-chat/internal/api"
	"nba-chat/internal/config"
	"nba-chat/internal/database"
	"nba-chat/internal/embedding"
	"nba-chat/internal/llm"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	logger := config.NewLogger(cfg.LogLevel)

	agents, err := agent.LoadConfig(cfg.AgentsFile)
	if err != nil {
		logger.Error("failed to load agents", "error", err)
		os.Exit(1)
	}

	// Ollama
	llmClient, err := llm.NewOllamaLLM(cfg.OllamaHost, cfg.Model)
	if err != nil {
		logger.Error("failed to create LLM client", "error", err)
		os.Exit(1)
	}
	embedder, err := embedding.NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbeddingModel)
	if err != nil {
		logger.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}

	// Knowledge indexes are optional; agents answer without context when
	// the database is unreachable.
	var (
		retriever agent.Retriever
		dbCheck   api.Checker
	)
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewDB(startCtx, cfg.DatabaseURL)
	cancelStart()
	if err != nil {
		logger.Warn("database not available, agents will answer without knowledge indexes", "error", err)
	} else {
		defer db.Close()
		retriever = agent.NewKnowledgeRetriever(embedder, db)
		dbCheck = db.Ping

		indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
		indexes, err := db.GetIndexes(indexCtx)
		cancelIndex()
		switch {
		case err != nil:
			logger.Warn("failed to list knowledge indexes", "error", err)
		case len(agents.MissingIndexes(indexes)) > 0:
			logger.Warn("knowledge indexes not loaded, run the indexer",
				"missing", agents.MissingIndexes(indexes), "available", indexes)
		}
	}

	orchestrator := agent.NewOrchestrator(agents, llmClient, retriever, cfg.ChatTimeout, logger)
	health := api.NewHealthHandler(llmClient.HealthCheck, dbCheck)

	// Router
	router := api.NewAgentRouter(orchestrator, cfg.ResponseMode, health, logger)

	// Server
	addr := fmt.Sprintf(":%d", cfg.AgentPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ChatTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("agent server starting",
			"addr", addr,
			"mode", cfg.ResponseMode,
			"agents", orchestrator.Agents(),
			"model", cfg.Model,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
