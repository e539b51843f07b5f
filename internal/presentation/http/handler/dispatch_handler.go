package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/presentation/http/dto/response"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// DispatchHandler exposes the failed dispatch log for inspection. The log
// is append-only; there is no retry or delete endpoint.
type DispatchHandler struct {
	failureRepo repository.DispatchFailureRepository
}

// NewDispatchHandler creates a new dispatch handler
func NewDispatchHandler(failureRepo repository.DispatchFailureRepository) *DispatchHandler {
	return &DispatchHandler{failureRepo: failureRepo}
}

// ListFailures returns failed dispatch entries, newest first
func (h *DispatchHandler) ListFailures(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()

	failures, total, err := h.failureRepo.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(failures, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Dispatch failures retrieved", result)
}
