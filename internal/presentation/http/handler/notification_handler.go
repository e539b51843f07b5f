package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/response"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// NotificationHandler handles received quote summary HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Receive accepts an inbound quote summary, stores it, and forwards it to
// the sales inbox. Responds {ok:true} on success for dispatching clients.
func (h *NotificationHandler) Receive(c *gin.Context) {
	var payload service.DispatchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "INVALID_PAYLOAD")
		return
	}

	notification, err := h.notificationService.Receive(c.Request.Context(), &payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(200, gin.H{"ok": true, "id": notification.ID})
}

// List returns stored quote notifications
func (h *NotificationHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	notifications, total, err := h.notificationService.List(c.Request.Context(), params, c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(notifications, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Quote notifications retrieved", result)
}

// Get returns one stored quote notification
func (h *NotificationHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid notification id")
		return
	}

	notification, err := h.notificationService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote notification retrieved", notification)
}
