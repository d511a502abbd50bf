package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/usecase"
)

// BroadcastController fans one message out to several conversations
type BroadcastController struct {
	UC *usecase.BroadcastUseCase
}

func NewBroadcastController(uc *usecase.BroadcastUseCase) *BroadcastController {
	return &BroadcastController{UC: uc}
}

// broadcastRequest is the DTO for the HTTP request body
type broadcastRequest struct {
	BroadcastID string     `json:"broadcastId"`
	ChatIDs     []string   `json:"chatIds" binding:"required"`
	Message     chat.Draft `json:"message"`
}

func (h *BroadcastController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req broadcastRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		receipt, err := h.UC.Execute(ctx, usecase.BroadcastInput{
			BroadcastID:     req.BroadcastID,
			ConversationIDs: req.ChatIDs,
			Message:         req.Message,
		})
		if err != nil {
			// Partial failures still report which targets were appended.
			body := gin.H{"error": err.Error()}
			if receipt != nil {
				body["receipt"] = receipt
			}
			c.JSON(statusFor(err), body)
			return
		}
		c.JSON(http.StatusCreated, receipt)
	}
}
