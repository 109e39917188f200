package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloo-solutions/vitrine/internal/api"
	"github.com/cloo-solutions/vitrine/internal/domain"
)

// HistoryClearedMessage confirms DELETE /chat/history.
const HistoryClearedMessage = "Chat history cleared"

type ChatService interface {
	ProcessMessage(ctx context.Context, message string, context map[string]any) string
	History() []domain.TranscriptEntry
	ClearHistory()
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Content string         `json:"content"`
	Context map[string]any `json:"context,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type HistoryResponse struct {
	History []domain.TranscriptEntry `json:"history"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		api.HandleError(w, domain.ErrMissingContent)
		return
	}

	reply := h.svc.ProcessMessage(r.Context(), req.Content, req.Context)
	api.JSON(w, http.StatusOK, ChatResponse{Response: reply})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	history := h.svc.History()
	if history == nil {
		history = []domain.TranscriptEntry{}
	}
	api.JSON(w, http.StatusOK, HistoryResponse{History: history})
}

func (h *ChatHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearHistory()
	api.JSON(w, http.StatusOK, api.MessageResponse{Message: HistoryClearedMessage})
}
