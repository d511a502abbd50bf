package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-chatsync/internal/pkg/chat/application/usecase"
)

// ListMessagesController returns a conversation log, oldest first (one controller per endpoint)
type ListMessagesController struct {
	UC *usecase.ListMessagesUseCase
}

func NewListMessagesController(uc *usecase.ListMessagesUseCase) *ListMessagesController {
	return &ListMessagesController{UC: uc}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.ListMessagesInput{ConversationID: c.Param("chatId")})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}
