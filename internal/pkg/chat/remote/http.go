package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	chat "go-chatsync/internal/pkg/chat/application/domain"
)

// APIError is the error body returned by the mock backend.
type APIError struct {
	Status  int                    `json:"-"`
	Message string                 `json:"error"`
	Receipt *chat.BroadcastReceipt `json:"receipt,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat api: %d: %s", e.Status, e.Message)
}

// HTTPClient reaches the mock backend served by cmd/api.
type HTTPClient struct {
	client *resty.Client
}

// NewHTTPClient targets baseURL, e.g. http://localhost:8080/api/v1.
func NewHTTPClient(baseURL string) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	return &HTTPClient{client: c}
}

var _ Service = (*HTTPClient)(nil)

func (h *HTTPClient) ListConversations(ctx context.Context) ([]chat.Conversation, error) {
	var out []chat.Conversation
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&APIError{}).
		Get("/chats")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPClient) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	out := []chat.Message{}
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("chatId", conversationID).
		SetResult(&out).
		SetError(&APIError{}).
		Get("/chats/{chatId}/messages")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *HTTPClient) SendMessage(ctx context.Context, conversationID string, draft chat.Draft) (chat.Message, error) {
	var out chat.Message
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("chatId", conversationID).
		SetBody(draft).
		SetResult(&out).
		SetError(&APIError{}).
		Post("/chats/{chatId}/messages")
	if err := check(resp, err); err != nil {
		return chat.Message{}, err
	}
	return out, nil
}

func (h *HTTPClient) Broadcast(ctx context.Context, req BroadcastRequest) (*chat.BroadcastReceipt, error) {
	var out chat.BroadcastReceipt
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&APIError{}).
		Post("/broadcast")
	if err := check(resp, err); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.Receipt, err
		}
		return nil, err
	}
	return &out, nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, ok := resp.Error().(*APIError)
	if !ok || apiErr.Message == "" {
		apiErr = &APIError{Message: http.StatusText(resp.StatusCode())}
	}
	apiErr.Status = resp.StatusCode()
	return apiErr
}
