package http

import (
	"context"
	"log"
	"net/http"

	"github.com/careerfindr/careerfindr-api/internal/modules/event/dto"
	eventService "github.com/careerfindr/careerfindr-api/internal/modules/event/service"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	"github.com/careerfindr/careerfindr-api/pkg/response"
	"github.com/careerfindr/careerfindr-api/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type EventHandler struct {
	service  eventService.EventService
	rt       *realtime.Manager
	upgrader websocket.Upgrader
}

func NewEventHandler(service eventService.EventService, rt *realtime.Manager) *EventHandler {
	return &EventHandler{
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

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": event})
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input dto.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.Update(c.Request.Context(), userID, eventID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, eventID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

func (h *EventHandler) UpcomingEvents(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	events, err := h.service.GetUpcoming(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

// StreamEvents pushes the user's upcoming-events list: once on connect, then
// again whenever an event they are part of changes.
func (h *EventHandler) StreamEvents(c *gin.Context) {
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
		return h.service.GetUpcoming(ctx, userID)
	}

	sub, err := h.rt.Subscribe(c.Request.Context(), eventService.ChannelFor(userID), load, func(snapshot interface{}) {
		if err := conn.WriteJSON(gin.H{"data": snapshot}); err != nil {
			log.Printf("Failed to write calendar snapshot: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to open calendar subscription: %v", err)
		return
	}
	defer sub.Close()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
