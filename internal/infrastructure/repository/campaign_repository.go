package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	domainRepo "github.com/onusexpress/courier-api/internal/domain/repository"
)

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) domainRepo.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *entity.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	var campaign entity.Campaign
	err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &campaign, err
}

func (r *campaignRepository) GetWithApplications(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	var campaign entity.Campaign
	err := r.db.WithContext(ctx).
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&campaign, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &campaign, err
}

func (r *campaignRepository) Update(ctx context.Context, campaign *entity.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

func (r *campaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Campaign{}, "id = ?", id).Error
}

func (r *campaignRepository) List(ctx context.Context, params *domainRepo.CampaignFilterParams) ([]entity.Campaign, int64, error) {
	var campaigns []entity.Campaign
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Campaign{})
	if params.OnlyActive {
		query = query.Where("active = ?", true)
	}
	if params.Search != "" {
		query = query.Where("title ILIKE ? OR zone ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&campaigns).Error

	return campaigns, total, err
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new courier application repository
func NewApplicationRepository(db *gorm.DB) domainRepo.ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *entity.CourierApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CourierApplication, error) {
	var application entity.CourierApplication
	err := r.db.WithContext(ctx).Preload("User").First(&application, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &application, err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.ApplicationStatus) error {
	return r.db.WithContext(ctx).
		Model(&entity.CourierApplication{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *applicationRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]entity.CourierApplication, error) {
	var applications []entity.CourierApplication
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) CountByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entity.CourierApplication{}).
		Where("campaign_id = ?", campaignID).
		Count(&total).Error
	return total, err
}

func (r *applicationRepository) ExistsForEmail(ctx context.Context, campaignID uuid.UUID, email string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entity.CourierApplication{}).
		Where("campaign_id = ? AND email = ?", campaignID, email).
		Count(&total).Error
	return total > 0, err
}
