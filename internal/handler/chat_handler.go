package handler

import (
	"context"
	"log/slog"
	"net/http"

	"mergerscan/internal/chat"

	"github.com/gin-gonic/gin"
)

type Chat interface {
	Reply(ctx context.Context, sessionID, message string) (*chat.Reply, error)
}

type ChatHandler struct {
	assistant Chat
}

func NewChatHandler(assistant Chat) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

func (h *ChatHandler) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.assistant.Reply(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		slog.Error("error answering chat message", "error", err, "session_id", req.SessionID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID: reply.SessionID,
		Reply:     reply.Text,
		Citations: reply.Citations,
	})
}
