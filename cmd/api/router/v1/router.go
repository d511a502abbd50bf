package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	httpHandler "go-chatsync/internal/pkg/chat/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
// delay, when non-nil, is applied to every v1 request to simulate network latency.
func RegisterRoutes(r *gin.Engine, deps httpHandler.Dependencies, delay func() time.Duration) {
	v1 := r.Group("/api/v1", httpHandler.Latency(delay))
	httpHandler.RegisterRoutes(v1, deps)
}
