package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-chatsync/internal/pkg/chat/application/usecase"
)

// ListConversationsController serves the conversation catalog
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(uc *usecase.ListConversationsUseCase) *ListConversationsController {
	return &ListConversationsController{UC: uc}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		convs, err := h.UC.Execute(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, convs)
	}
}
