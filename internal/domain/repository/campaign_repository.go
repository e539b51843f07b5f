package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// CampaignRepository defines the interface for recruitment campaign
// data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)
	GetWithApplications(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)
	Update(ctx context.Context, campaign *entity.Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CampaignFilterParams) ([]entity.Campaign, int64, error)
}

// CampaignFilterParams contains filtering parameters for campaign queries
type CampaignFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	OnlyActive bool
}

// ApplicationRepository defines the interface for courier application
// data operations
type ApplicationRepository interface {
	Create(ctx context.Context, application *entity.CourierApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CourierApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ApplicationStatus) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]entity.CourierApplication, error)
	CountByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error)
	// ExistsForEmail reports whether the email already applied to the campaign
	ExistsForEmail(ctx context.Context, campaignID uuid.UUID, email string) (bool, error)
}
