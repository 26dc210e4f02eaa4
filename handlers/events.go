package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomdesk/models"
	"roomdesk/services/conversation"
	"roomdesk/utils"
)

// EventsHandler is the intake for already-verified messaging-channel events.
// Transport signature verification and profile lookup happen upstream; this
// endpoint receives the resolved event and returns the replies to deliver.
type EventsHandler struct {
	Controller conversation.Controller
	Logger     *zap.Logger
}

func NewEventsHandler(controller conversation.Controller, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{Controller: controller, Logger: logger}
}

// HandleEventHandler feeds one inbound event through the conversation state
// machine.
func (h *EventsHandler) HandleEventHandler(c *gin.Context) {
	var event models.InboundEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event", err.Error())
		return
	}
	if event.CustomerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid event", "customer_id is required")
		return
	}

	messages, err := h.Controller.HandleEvent(c.Request.Context(), event)
	if err != nil {
		h.Logger.Error("conversation handling failed",
			zap.String("customerID", event.CustomerID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "event handling failed", "unexpected error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
