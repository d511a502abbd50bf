package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/usecase"
)

// SendMessageController appends a message and answers with the stored copy (one controller per endpoint)
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(uc *usecase.SendMessageUseCase) *SendMessageController {
	return &SendMessageController{UC: uc}
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft chat.Draft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{ConversationID: c.Param("chatId"), Message: draft})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
