package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nba-chat/internal/api"
	"nba-chat/internal/chat"
	"nba-chat/internal/config"
	"nba-chat/internal/database"
	"nba-chat/internal/models"
	"nba-chat/internal/proxy"
)

// noTickets serves ticket requests while the database is unreachable
type noTickets struct {
	err error
}

func (n noTickets) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return nil, n.err
}

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	logger := config.NewLogger(cfg.LogLevel)

	// Tickets
	var tickets api.TicketLister
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewDB(startCtx, cfg.DatabaseURL)
	cancelStart()
	if err != nil {
		logger.Warn("database not available, ticket requests will fail", "error", err)
		tickets = noTickets{err: err}
	} else {
		defer db.Close()
		db.TicketsTable = cfg.TicketsTable
		tickets = db
	}

	// Agent backend
	apiProxy, err := proxy.New(cfg.AgentURL, "/api", logger)
	if err != nil {
		logger.Error("failed to create api proxy", "error", err)
		os.Exit(1)
	}
	client := chat.NewClient(strings.TrimSuffix(cfg.AgentURL, "/") + "/chat")

	// Router
	router := api.NewWebRouter(tickets, client, api.NewSessions(), apiProxy, logger)

	// Server
	addr := fmt.Sprintf(":%d", cfg.WebPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("web server starting", "addr", addr, "agent_url", cfg.AgentURL, "tickets_table", cfg.TicketsTable)
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
