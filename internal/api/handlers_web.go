package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"nba-chat/internal/chat"
	"nba-chat/internal/models"
)

// TicketLister reads ticket rows
type TicketLister interface {
	ListTickets(ctx context.Context) ([]models.Ticket, error)
}

type TicketHandler struct {
	tickets TicketLister
	logger  *slog.Logger
}

func NewTicketHandler(tickets TicketLister, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{tickets: tickets, logger: logger}
}

// List handles GET /api/tickets
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListTickets(r.Context())
	if err != nil {
		h.logger.Error("list tickets", "request_id", requestID(r), "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// Page handles GET /tickets. Failures are logged and render an empty list.
func (h *TicketHandler) Page(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.tickets.ListTickets(r.Context())
	if err != nil {
		h.logger.Error("error fetching tickets", "request_id", requestID(r), "error", err)
		tickets = nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ticketsPage.Execute(w, tickets); err != nil {
		h.logger.Error("render tickets page", "error", err)
	}
}

type ChatPageHandler struct {
	sessions *Sessions
	sender   chat.Sender
	logger   *slog.Logger
}

func NewChatPageHandler(sessions *Sessions, sender chat.Sender, logger *slog.Logger) *ChatPageHandler {
	return &ChatPageHandler{sessions: sessions, sender: sender, logger: logger}
}

type chatPageData struct {
	Messages []chat.Message
	Busy     bool
}

// Page handles GET /. A visitor without a session sees an empty log.
func (h *ChatPageHandler) Page(w http.ResponseWriter, r *http.Request) {
	var data chatPageData
	if log := h.sessions.Lookup(r); log != nil {
		data = chatPageData{Messages: log.Messages(), Busy: log.Busy()}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chatPage.Execute(w, data); err != nil {
		h.logger.Error("render chat page", "error", err)
	}
}

// Send handles POST /send
func (h *ChatPageHandler) Send(w http.ResponseWriter, r *http.Request) {
	log := h.sessions.Get(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := log.Submit(r.Context(), h.sender, r.PostFormValue("message"))
	switch {
	case errors.Is(err, chat.ErrEmpty):
	case errors.Is(err, chat.ErrBusy):
		h.logger.Info("submission ignored while busy", "request_id", requestID(r))
	case err != nil:
		h.logger.Warn("chat request failed", "request_id", requestID(r), "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
