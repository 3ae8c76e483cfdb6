package http

import (
	"context"
	"log"
	"net/http"

	"github.com/careerfindr/careerfindr-api/internal/modules/chat/dto"
	chatService "github.com/careerfindr/careerfindr-api/internal/modules/chat/service"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	pkgdto "github.com/careerfindr/careerfindr-api/pkg/dto"
	"github.com/careerfindr/careerfindr-api/pkg/response"
	"github.com/careerfindr/careerfindr-api/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ChatHandler struct {
	service  chatService.ChatService
	rt       *realtime.Manager
	upgrader websocket.Upgrader
}

func NewChatHandler(service chatService.ChatService, rt *realtime.Manager) *ChatHandler {
	return &ChatHandler{
		service: service,
		rt:      rt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the router level
			},
		},
	}
}

// REST Endpoints

func (h *ChatHandler) StartChat(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.StartChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	chat, err := h.service.GetOrCreateChat(c.Request.Context(), userID, input.PartnerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": chat})
}

func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chats, err := h.service.ListChats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": chats})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return
	}

	var page pkgdto.PageFilter
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), userID, chatID, page.Limit, page.Offset())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": messages})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return
	}

	var input dto.SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), userID, chatID, input.Text)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": message})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, chatID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat marked as read"})
}

// WebSocket Endpoints

// StreamMessages pushes full message snapshots for one conversation: the
// current history on connect, then again after every new message.
func (h *ChatHandler) StreamMessages(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return
	}

	// Verify membership before upgrading; the loader runs unauthenticated
	// after this point.
	if _, err := h.service.GetMessages(c.Request.Context(), userID, chatID, 1, 0); err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	load := func(ctx context.Context) (interface{}, error) {
		return h.service.GetMessages(ctx, userID, chatID, 100, 0)
	}

	sub, err := h.rt.Subscribe(c.Request.Context(), chatService.MessageChannelFor(chatID), load, func(snapshot interface{}) {
		if err := conn.WriteJSON(gin.H{"data": snapshot}); err != nil {
			log.Printf("Failed to write chat snapshot: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to open chat subscription: %v", err)
		return
	}
	defer sub.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// StreamChatList pushes the user's conversation list: once on connect, then
// again whenever any of their chats changes.
func (h *ChatHandler) StreamChatList(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	load := func(ctx context.Context) (interface{}, error) {
		return h.service.ListChats(ctx, userID)
	}

	sub, err := h.rt.Subscribe(c.Request.Context(), chatService.ListChannelFor(userID), load, func(snapshot interface{}) {
		if err := conn.WriteJSON(gin.H{"data": snapshot}); err != nil {
			log.Printf("Failed to write chat list snapshot: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to open chat list subscription: %v", err)
		return
	}
	defer sub.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
