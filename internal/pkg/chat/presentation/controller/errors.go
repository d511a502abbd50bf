package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-chatsync/internal/pkg/chat/application/usecase"
)

// statusFor maps use case errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
