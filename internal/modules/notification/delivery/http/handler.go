package http

import (
	"context"
	"log"
	"net/http"

	notifService "github.com/careerfindr/careerfindr-api/internal/modules/notification/service"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	"github.com/careerfindr/careerfindr-api/pkg/dto"
	"github.com/careerfindr/careerfindr-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

type NotificationHandler struct {
	service  notifService.NotificationService
	rt       *realtime.Manager
	upgrader websocket.Upgrader
}

func NewNotificationHandler(service notifService.NotificationService, rt *realtime.Manager) *NotificationHandler {
	return &NotificationHandler{
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

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var page dto.PageFilter
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifications, err := h.service.GetNotifications(c.Request.Context(), userID, page.Limit, page.Offset())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// WebSocket Endpoint

// HandleWebSocket streams full notification snapshots to the client: one on
// connect, then one per change. Teardown on client disconnect ends the
// subscription; a dropped Redis connection requires a reconnect from the
// client side.
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
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

	ctx := c.Request.Context()

	load := func(ctx context.Context) (interface{}, error) {
		return h.service.GetNotifications(ctx, userID, 50, 0)
	}

	sub, err := h.rt.Subscribe(ctx, notifService.ChannelFor(userID), load, func(snapshot interface{}) {
		if err := conn.WriteJSON(gin.H{"data": snapshot}); err != nil {
			log.Printf("Failed to write notification snapshot: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to open notification subscription: %v", err)
		return
	}
	defer sub.Close()

	// Block until the client goes away; reads also service ping/pong.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
