package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/chatproxy"
	"github.com/mrlokans/reader/internal/entities"
)

// ChatHistoryStore defines the per-book chat-history operations the
// controller needs.
type ChatHistoryStore interface {
	Load(bookID string) []entities.ChatMessage
	Append(bookID string, msg entities.ChatMessage) error
	Clear(bookID string) error
}

type ChatController struct {
	proxy   *chatproxy.Client
	history ChatHistoryStore
}

func NewChatController(proxy *chatproxy.Client, history ChatHistoryStore) *ChatController {
	return &ChatController{proxy: proxy, history: history}
}

// Proxy forwards the chat payload to the selected LLM provider and returns
// the provider's JSON verbatim. Upstream failures mirror the upstream
// status so the UI can show provider error details.
// POST /api/chat
func (cc *ChatController) Proxy(c *gin.Context) {
	var req chatproxy.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid chat request: "+err.Error())
		return
	}
	if req.Provider == "" || len(req.Messages) == 0 {
		respondBadRequest(c, "missing provider or messages")
		return
	}

	resp, err := cc.proxy.Complete(c.Request.Context(), req)
	if err != nil {
		var upstream *chatproxy.UpstreamError
		switch {
		case errors.As(err, &upstream):
			c.JSON(upstream.StatusCode, ErrorResponse{Error: "upstream error: " + upstream.Body})
		case errors.Is(err, chatproxy.ErrUnknownProvider),
			errors.Is(err, chatproxy.ErrMissingBaseURL):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "chat proxy")
		}
		return
	}

	c.Data(http.StatusOK, "application/json", resp)
}

// GetHistory returns the book's chat history, oldest first.
// GET /api/history/:bookId
func (cc *ChatController) GetHistory(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, cc.history.Load(bookID))
}

// AppendHistory appends one message to the book's chat history.
// POST /api/history/:bookId
func (cc *ChatController) AppendHistory(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	var msg entities.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		respondBadRequest(c, "invalid chat message body: "+err.Error())
		return
	}
	if err := msg.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := cc.history.Append(bookID, msg); err != nil {
		respondInternalError(c, err, "append chat history")
		return
	}

	respondSuccess(c, "message saved")
}

// ClearHistory deletes the book's chat history.
// DELETE /api/history/:bookId
func (cc *ChatController) ClearHistory(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	if err := cc.history.Clear(bookID); err != nil {
		respondInternalError(c, err, "clear chat history")
		return
	}

	respondSuccess(c, "chat history cleared")
}
