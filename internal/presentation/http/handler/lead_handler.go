package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/request"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/response"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// LeadHandler handles contact form HTTP requests
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Submit stores a public contact form submission
func (h *LeadHandler) Submit(c *gin.Context) {
	var req request.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.leadService.Submit(c.Request.Context(), &service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Message received", gin.H{"id": message.ID})
}

// List returns contact messages, newest first
func (h *LeadHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	onlyUnhandled := c.Query("unhandled") == "true"
	result, err := h.leadService.List(c.Request.Context(), params, onlyUnhandled)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Contact messages retrieved", result)
}

// Get returns one contact message
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid message id")
		return
	}

	message, err := h.leadService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact message retrieved", message)
}

// MarkHandled flags a contact message as dealt with
func (h *LeadHandler) MarkHandled(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid message id")
		return
	}

	message, err := h.leadService.MarkHandled(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Contact message marked handled", message)
}
