package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/pricing"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/request"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/response"
)

// QuoteHandler handles quote session HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// GetCatalog returns the published rate sheet and surcharge tables
func (h *QuoteHandler) GetCatalog(c *gin.Context) {
	response.OK(c, "Catalog retrieved", h.quoteService.Catalog())
}

// CreateSession opens a new empty quote session
func (h *QuoteHandler) CreateSession(c *gin.Context) {
	view := h.quoteService.CreateSession()
	response.Created(c, "Quote session created", view)
}

// GetSession returns the current state of a quote session
func (h *QuoteHandler) GetSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	view, err := h.quoteService.View(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote session retrieved", view)
}

// DropSession discards a quote session
func (h *QuoteHandler) DropSession(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	h.quoteService.DropSession(id)
	response.NoContent(c)
}

// SetClientName sets the quote's client display name
func (h *QuoteHandler) SetClientName(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.SetClientNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.quoteService.SetClientName(id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client name updated", view)
}

// AddServiceLine adds a delivery tier line to the quote
func (h *QuoteHandler) AddServiceLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.AddServiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.quoteService.AddService(id, req.Service, req.WeightKg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service line added", view)
}

// AddWeightSurcharge adds a flat weight surcharge line
func (h *QuoteHandler) AddWeightSurcharge(c *gin.Context) {
	h.addSurcharge(c, h.quoteService.AddWeightSurcharge)
}

// AddDimensionSurcharge adds a flat dimension surcharge line
func (h *QuoteHandler) AddDimensionSurcharge(c *gin.Context) {
	h.addSurcharge(c, h.quoteService.AddDimensionSurcharge)
}

func (h *QuoteHandler) addSurcharge(c *gin.Context, add func(uuid.UUID, string) (service.QuoteView, error)) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.AddSurchargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := add(id, req.Key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Surcharge added", view)
}

// AddAdditional adds an ad-hoc service line
func (h *QuoteHandler) AddAdditional(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.AddAdditionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.quoteService.AddAdditional(id, req.Concept, req.Price, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Additional service added", view)
}

// UpdateLine patches a quote line
func (h *QuoteHandler) UpdateLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}
	lineID, ok := parseUUIDParam(c, "line_id")
	if !ok {
		response.BadRequest(c, "Invalid line id")
		return
	}

	var req request.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.quoteService.UpdateLine(id, lineID, pricing.LinePatch{
		Description: req.Description,
		UnitPrice:   req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line updated", view)
}

// RemoveLine drops a quote line
func (h *QuoteHandler) RemoveLine(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}
	lineID, ok := parseUUIDParam(c, "line_id")
	if !ok {
		response.BadRequest(c, "Invalid line id")
		return
	}

	view, err := h.quoteService.RemoveLine(id, lineID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line removed", view)
}

// SetAdjustment sets the manual correction line
func (h *QuoteHandler) SetAdjustment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.SetAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.quoteService.SetAdjustment(id, req.Label, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Adjustment set", view)
}

// ClearAdjustment removes the manual correction line
func (h *QuoteHandler) ClearAdjustment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	view, err := h.quoteService.ClearAdjustment(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Adjustment cleared", view)
}

// Reset empties the quote and returns the session to the idle state
func (h *QuoteHandler) Reset(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	view, err := h.quoteService.Reset(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote reset", view)
}

// ExportPDF downloads the quote breakdown as a PDF document
func (h *QuoteHandler) ExportPDF(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	pdf, err := h.quoteService.ExportPDF(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, pdf.Filename, "application/pdf", pdf.Content)
}

// Dispatch sends the quote summary to the configured notify endpoint.
// The operator's own bearer token travels with the outbound call; a
// missing or expired session surfaces as a queued failure.
func (h *QuoteHandler) Dispatch(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session id")
		return
	}

	var req request.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	operatorToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	view, err := h.quoteService.Dispatch(c.Request.Context(), id, req.ClientEmail, operatorToken)
	if err != nil {
		// The view still reflects the queued state after a failed send
		if view.State == service.DispatchQueued {
			response.ErrorWithCode(c, 502, "Dispatch failed and was queued")
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote dispatched", view)
}
