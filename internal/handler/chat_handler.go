// Package handler contains the HTTP controllers.
package handler

import (
	"net/http"

	"hissenet-chatbot/internal/service"
	"hissenet-chatbot/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the QA pipeline over HTTP.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/chat. The pipeline itself never errors; only a
// body that cannot be parsed produces an error response.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("[ChatHandler] failed to parse request body: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sunucu hatası!"})
		return
	}

	log.Infof("[ChatHandler] user message received")
	answer := h.chatService.Answer(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

// Health handles GET /healthz.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
