package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	kvport "go-chatsync/internal/infrastructure/kv/port"
)

// HealthController reports whether the storage backend answers
type HealthController struct {
	KV kvport.Store
}

func NewHealthController(kv kvport.Store) *HealthController {
	return &HealthController{KV: kv}
}

func (h *HealthController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.KV.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	}
}
