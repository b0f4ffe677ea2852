package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nba-chat/internal/chat"
)

// NewAgentRouter creates the router of the chat agent backend.
func NewAgentRouter(chatter Chatter, mode string, health *HealthHandler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	chatH := NewChatHandler(chatter, mode, logger)

	r.Get("/health", health.Health)
	r.Post("/chat", chatH.Chat)

	return r
}

// NewWebRouter creates the router of the front-end server. Requests under
// /api other than the ticket listing are handed to apiProxy.
func NewWebRouter(tickets TicketLister, sender chat.Sender, sessions *Sessions, apiProxy http.Handler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	ticketH := NewTicketHandler(tickets, logger)
	pageH := NewChatPageHandler(sessions, sender, logger)

	r.Get("/", pageH.Page)
	r.Post("/send", pageH.Send)
	r.Get("/tickets", ticketH.Page)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tickets", ticketH.List)
		r.Handle("/*", apiProxy)
	})

	return r
}
