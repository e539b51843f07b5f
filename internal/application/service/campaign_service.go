package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/export"
	"github.com/onusexpress/courier-api/pkg/apperror"
)

// CampaignService handles recruitment campaigns and their applications
type CampaignService struct {
	campaignRepo    repository.CampaignRepository
	applicationRepo repository.ApplicationRepository
	now             func() time.Time
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	applicationRepo repository.ApplicationRepository,
) *CampaignService {
	return &CampaignService{
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		now:             time.Now,
	}
}

// CampaignInput represents campaign create/update input
type CampaignInput struct {
	Title       string
	Description string
	Zone        string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      bool
}

// Create creates a new campaign
func (s *CampaignService) Create(ctx context.Context, input *CampaignInput) (*entity.Campaign, error) {
	if input.Title == "" {
		return nil, apperror.NewBadRequestError("Title is required")
	}
	campaign := &entity.Campaign{
		Title:    input.Title,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
		Active:   input.Active,
	}
	if input.Description != "" {
		campaign.Description = &input.Description
	}
	if input.Zone != "" {
		campaign.Zone = &input.Zone
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Update replaces a campaign's editable fields
func (s *CampaignService) Update(ctx context.Context, id uuid.UUID, input *CampaignInput) (*entity.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperror.NewNotFoundError("Campaign")
	}

	campaign.Title = input.Title
	campaign.StartsAt = input.StartsAt
	campaign.EndsAt = input.EndsAt
	campaign.Active = input.Active
	campaign.Description = nil
	if input.Description != "" {
		campaign.Description = &input.Description
	}
	campaign.Zone = nil
	if input.Zone != "" {
		campaign.Zone = &input.Zone
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Delete removes a campaign
func (s *CampaignService) Delete(ctx context.Context, id uuid.UUID) error {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if campaign == nil {
		return apperror.NewNotFoundError("Campaign")
	}
	return s.campaignRepo.Delete(ctx, id)
}

// Get returns one campaign
func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperror.NewNotFoundError("Campaign")
	}
	return campaign, nil
}

// GetDetail returns a campaign with its applications loaded
func (s *CampaignService) GetDetail(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	campaign, err := s.campaignRepo.GetWithApplications(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperror.NewNotFoundError("Campaign")
	}
	return campaign, nil
}

// List returns campaigns matching the filters
func (s *CampaignService) List(ctx context.Context, params *repository.CampaignFilterParams) ([]entity.Campaign, int64, error) {
	return s.campaignRepo.List(ctx, params)
}

// Apply registers a courier application against an open campaign. A second
// application with the same email on the same campaign is rejected.
func (s *CampaignService) Apply(ctx context.Context, campaignID uuid.UUID, application *entity.CourierApplication) (*entity.CourierApplication, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperror.NewNotFoundError("Campaign")
	}
	if !campaign.IsOpen(s.now()) {
		return nil, apperror.NewConflictError("Campaign is not accepting applications")
	}

	exists, err := s.applicationRepo.ExistsForEmail(ctx, campaignID, application.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Application already submitted for this campaign")
	}

	application.CampaignID = campaignID
	application.Status = enum.ApplicationStatusPendiente
	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}

// ReviewApplication sets the review status of an application
func (s *CampaignService) ReviewApplication(ctx context.Context, id uuid.UUID, status enum.ApplicationStatus) (*entity.CourierApplication, error) {
	application, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, apperror.NewNotFoundError("Application")
	}

	if err := s.applicationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	application.Status = status
	return application, nil
}

// FileExport carries rendered listing bytes and the download filename
type FileExport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportCSV renders a campaign's applications as a CSV download
func (s *CampaignService) ExportCSV(ctx context.Context, id uuid.UUID) (*FileExport, error) {
	listing, err := s.listing(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FileExport{
		Filename:    export.ApplicationsCSVFilename(listing.CampaignTitle, s.now()),
		ContentType: "text/csv; charset=utf-8",
		Content:     export.ApplicationsCSV(*listing),
	}, nil
}

// ExportExcel renders a campaign's applications as an xlsx download
func (s *CampaignService) ExportExcel(ctx context.Context, id uuid.UUID) (*FileExport, error) {
	listing, err := s.listing(ctx, id)
	if err != nil {
		return nil, err
	}
	content, err := export.ApplicationsExcel(*listing)
	if err != nil {
		return nil, err
	}
	return &FileExport{
		Filename:    export.ApplicationsExcelFilename(listing.CampaignTitle, s.now()),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

func (s *CampaignService) listing(ctx context.Context, id uuid.UUID) (*export.CampaignListing, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperror.NewNotFoundError("Campaign")
	}

	applications, err := s.applicationRepo.ListByCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(applications) == 0 {
		return nil, apperror.NewConflictError("No applications to export")
	}

	rows := make([]export.ApplicationRow, 0, len(applications))
	for _, a := range applications {
		row := export.ApplicationRow{
			Name:      a.Name,
			Email:     a.Email,
			AppliedAt: a.CreatedAt,
			Status:    a.Status.String(),
		}
		if a.User != nil && a.User.CourierCode != nil {
			row.CourierCode = *a.User.CourierCode
		}
		if a.Phone != nil {
			row.Phone = *a.Phone
		}
		if a.Motivation != nil {
			row.Motivation = *a.Motivation
		}
		if a.Experience != nil {
			row.Experience = *a.Experience
		}
		if a.Availability != nil {
			row.Availability = *a.Availability
		}
		rows = append(rows, row)
	}

	return &export.CampaignListing{CampaignTitle: campaign.Title, Rows: rows}, nil
}
