package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// DispatchFailureRepository defines the interface for the failed dispatch
// log. The log is append-only; no update or delete operations exist.
type DispatchFailureRepository interface {
	Append(ctx context.Context, failure *entity.DispatchFailure) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DispatchFailure, int64, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

// QuoteNotificationRepository defines the interface for received quote
// summaries
type QuoteNotificationRepository interface {
	Create(ctx context.Context, notification *entity.QuoteNotification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.QuoteNotification, error)
	List(ctx context.Context, params *pagination.PaginationParams, email string) ([]entity.QuoteNotification, int64, error)
}
