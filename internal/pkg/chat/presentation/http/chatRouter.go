package http

import (
	"time"

	"github.com/gin-gonic/gin"

	kvport "go-chatsync/internal/infrastructure/kv/port"
	qport "go-chatsync/internal/infrastructure/queue/port"
	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/usecase"
	repository "go-chatsync/internal/pkg/chat/persistence/repository/port"
	"go-chatsync/internal/pkg/chat/presentation/controller"
)

// Dependencies are the collaborators the chat endpoints are built from.
// Queue is optional; without it the queued send endpoint is not mounted.
type Dependencies struct {
	Repo      repository.LogRepository
	Catalog   chat.Catalog
	Queue     qport.Client
	QueueName string
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Dependencies) {
	listConvCtl := controller.NewListConversationsController(usecase.NewListConversationsUseCase(deps.Catalog))
	listMsgCtl := controller.NewListMessagesController(usecase.NewListMessagesUseCase(deps.Repo))
	sendMsgCtl := controller.NewSendMessageController(usecase.NewSendMessageUseCase(deps.Repo))
	broadcastCtl := controller.NewBroadcastController(usecase.NewBroadcastUseCase(deps.Repo))

	// GET /api/v1/chats -> list conversations
	g.GET("/chats", listConvCtl.Handle())

	// GET /api/v1/chats/:chatId/messages -> fetch a conversation log
	g.GET("/chats/:chatId/messages", listMsgCtl.Handle())

	// POST /api/v1/chats/:chatId/messages -> append a message
	g.POST("/chats/:chatId/messages", sendMsgCtl.Handle())

	// POST /api/v1/broadcast -> append one message to several conversations
	g.POST("/broadcast", broadcastCtl.Handle())

	if deps.Queue != nil {
		// POST /api/v1/chats/:chatId/messages/queue -> append later through the task queue
		g.POST("/chats/:chatId/messages/queue", controller.NewQueueMessageController(deps.Queue, deps.QueueName).Handle())
	}
}

// RegisterHealth mounts GET / reporting storage health.
func RegisterHealth(r gin.IRoutes, kv kvport.Store) {
	r.GET("/", controller.NewHealthController(kv).Handle())
}

// statusClientClosedRequest is the non-standard 499 nginx logs when the client
// hangs up before a response is written. Nothing reads it; it only marks the
// request as abandoned in the access log.
const statusClientClosedRequest = 499

// Latency delays every request by delay() to model a network round trip.
func Latency(delay func() time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if delay == nil {
			c.Next()
			return
		}
		if d := delay(); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-c.Request.Context().Done():
				t.Stop()
				c.AbortWithStatus(statusClientClosedRequest)
				return
			case <-t.C:
			}
		}
		c.Next()
	}
}
