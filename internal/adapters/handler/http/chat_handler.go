package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitaburn/vitaburn-engine/internal/adapters/handler/http/middleware"
	"github.com/vitaburn/vitaburn-engine/internal/assistant"
	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
	"github.com/vitaburn/vitaburn-engine/internal/core/services"
)

type ChatHandler struct {
	svc *services.ChatService
}

func NewChatHandler(svc *services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages" binding:"required,min=1"`
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/chat", h.Stream)
}

// Stream relays the assistant's reply as server-sent events, one frame
// per delta. A mid-stream failure appends the fallback message so the
// client always receives a complete reply before the [DONE] terminator.
func (h *ChatHandler) Stream(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	// An exchange may not outlive the stream deadline even when the
	// client keeps its connection open.
	ctx, cancel := assistant.StreamTimeoutContext(c.Request.Context())
	defer cancel()

	_, err := h.svc.Stream(ctx, userID, req.Messages, func(delta string) error {
		return writeDeltaFrame(c.Writer, delta)
	})
	if err != nil {
		log.Printf("Chat: stream for user %s interrupted: %v", userID, err)
		_ = writeDeltaFrame(c.Writer, services.FallbackMessage)
	}

	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}

func writeDeltaFrame(w gin.ResponseWriter, delta string) error {
	payload, err := json.Marshal(map[string]string{"content": delta})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}
