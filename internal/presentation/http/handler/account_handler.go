package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/response"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// AccountHandler handles administrative account HTTP requests
type AccountHandler struct {
	authService *service.AuthService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *service.AuthService) *AccountHandler {
	return &AccountHandler{authService: authService}
}

// List returns accounts matching the query filters
func (h *AccountHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	filter := &repository.UserFilterParams{
		Pagination: params,
		Search:     c.Query("search"),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role, err := enum.ParseRole(roleStr)
		if err != nil {
			response.BadRequest(c, "Invalid role filter")
			return
		}
		filter.Role = &role
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, err := enum.ParseAccountStatus(statusStr)
		if err != nil {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	users, total, err := h.authService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Accounts retrieved", result)
}

// Get returns one account
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account id")
		return
	}

	user, err := h.authService.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Account retrieved", user)
}

// IssueCredentials generates a temporary password for a pending client
// account and activates it
func (h *AccountHandler) IssueCredentials(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid account id")
		return
	}

	user, err := h.authService.IssueCredentials(c.Request.Context(), id, AdminActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Credentials issued", accountPayload(user))
}
