package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// ContactRepository defines the interface for contact form data operations
type ContactRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error)
	MarkHandled(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, onlyUnhandled bool) ([]entity.ContactMessage, int64, error)
}
