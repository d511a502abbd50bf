package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	queueport "go-chatsync/internal/infrastructure/queue/port"
	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/task"
)

// QueueMessageController enqueues a background task that appends the message later
type QueueMessageController struct {
	Q     queueport.Client
	Queue string
}

func NewQueueMessageController(client queueport.Client, queue string) *QueueMessageController {
	return &QueueMessageController{Q: client, Queue: queue}
}

func (h *QueueMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID := c.Param("chatId")
		if chatID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chatId is required"})
			return
		}

		var draft chat.Draft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		t, err := task.NewSendMessageTask(chatID, draft, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		id, err := h.Q.Enqueue(ctx, t, queueport.EnqueueOption{Queue: h.Queue, MaxRetry: 20})
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":  "queued",
			"task_id": id,
			"chatId":  chatID,
		})
	}
}
