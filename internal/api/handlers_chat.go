package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"nba-chat/internal/config"
	"nba-chat/internal/models"
)

// Chatter answers a chat message with one answer per agent
type Chatter interface {
	Chat(ctx context.Context, user, message string) ([]models.AgentAnswer, error)
	Summarize(ctx context.Context, message string, answers []models.AgentAnswer) (string, error)
}

type ChatHandler struct {
	chatter Chatter
	mode    string
	logger  *slog.Logger
}

func NewChatHandler(chatter Chatter, mode string, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chatter: chatter, mode: mode, logger: logger}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.User) == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	answers, err := h.chatter.Chat(r.Context(), req.User, req.Message)
	if err != nil {
		h.logger.Error("chat error", "request_id", requestID(r), "error", err)
		writeError(w, http.StatusInternalServerError, "Chat error: "+err.Error())
		return
	}

	if h.mode != config.ModeSummary {
		writeJSON(w, http.StatusOK, answers)
		return
	}

	summary, err := h.chatter.Summarize(r.Context(), req.Message, answers)
	if err != nil {
		h.logger.Error("summary error", "request_id", requestID(r), "error", err)
		writeError(w, http.StatusInternalServerError, "Chat error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.SummaryResponse{
		Items: []models.SummaryItem{{Text: summary}},
	})
}
