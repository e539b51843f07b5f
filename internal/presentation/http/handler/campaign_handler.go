package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/request"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/response"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// CampaignHandler handles recruitment campaign HTTP requests
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

func campaignInput(req *request.CampaignRequest) *service.CampaignInput {
	return &service.CampaignInput{
		Title:       req.Title,
		Description: req.Description,
		Zone:        req.Zone,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Active:      req.Active,
	}
}

// List returns campaigns. Public callers see open campaigns only; the
// admin listing passes all=true.
func (h *CampaignHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	campaigns, total, err := h.campaignService.List(c.Request.Context(), &repository.CampaignFilterParams{
		Pagination: params,
		Search:     c.Query("search"),
		OnlyActive: c.Query("all") != "true",
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(campaigns, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Campaigns retrieved", result)
}

// Get returns one campaign
func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	campaign, err := h.campaignService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Campaign retrieved", campaign)
}

// GetDetail returns a campaign with its applications
func (h *CampaignHandler) GetDetail(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	campaign, err := h.campaignService.GetDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Campaign detail retrieved", campaign)
}

// Create creates a campaign
func (h *CampaignHandler) Create(c *gin.Context) {
	var req request.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	campaign, err := h.campaignService.Create(c.Request.Context(), campaignInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Campaign created", campaign)
}

// Update replaces a campaign's editable fields
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	var req request.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	campaign, err := h.campaignService.Update(c.Request.Context(), id, campaignInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Campaign updated", campaign)
}

// Delete removes a campaign
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	if err := h.campaignService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Apply registers a public courier application against a campaign
func (h *CampaignHandler) Apply(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	var req request.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	application := &entity.CourierApplication{
		Name:  req.Name,
		Email: req.Email,
	}
	if req.Phone != "" {
		application.Phone = &req.Phone
	}
	if req.Motivation != "" {
		application.Motivation = &req.Motivation
	}
	if req.Experience != "" {
		application.Experience = &req.Experience
	}
	if req.Availability != "" {
		application.Availability = &req.Availability
	}

	created, err := h.campaignService.Apply(c.Request.Context(), id, application)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Application received", gin.H{"id": created.ID})
}

// ReviewApplication sets the review status of an application
func (h *CampaignHandler) ReviewApplication(c *gin.Context) {
	id, ok := parseUUIDParam(c, "application_id")
	if !ok {
		response.BadRequest(c, "Invalid application id")
		return
	}

	var req request.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status, err := enum.ParseApplicationStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid status")
		return
	}

	application, err := h.campaignService.ReviewApplication(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Application updated", application)
}

// ExportCSV downloads a campaign's applications as CSV
func (h *CampaignHandler) ExportCSV(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	file, err := h.campaignService.ExportCSV(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}

// ExportExcel downloads a campaign's applications as an xlsx workbook
func (h *CampaignHandler) ExportExcel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid campaign id")
		return
	}

	file, err := h.campaignService.ExportExcel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Content)
}
