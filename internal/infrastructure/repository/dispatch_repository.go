package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	domainRepo "github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

type dispatchFailureRepository struct {
	db *gorm.DB
}

// NewDispatchFailureRepository creates a new failed dispatch log repository
func NewDispatchFailureRepository(db *gorm.DB) domainRepo.DispatchFailureRepository {
	return &dispatchFailureRepository{db: db}
}

func (r *dispatchFailureRepository) Append(ctx context.Context, failure *entity.DispatchFailure) error {
	return r.db.WithContext(ctx).Create(failure).Error
}

func (r *dispatchFailureRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DispatchFailure, int64, error) {
	var failures []entity.DispatchFailure
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.DispatchFailure{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("failed_at DESC").
		Find(&failures).Error

	return failures, total, err
}

func (r *dispatchFailureRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entity.DispatchFailure{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error
	return total, err
}

type quoteNotificationRepository struct {
	db *gorm.DB
}

// NewQuoteNotificationRepository creates a new received quote repository
func NewQuoteNotificationRepository(db *gorm.DB) domainRepo.QuoteNotificationRepository {
	return &quoteNotificationRepository{db: db}
}

func (r *quoteNotificationRepository) Create(ctx context.Context, notification *entity.QuoteNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *quoteNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.QuoteNotification, error) {
	var notification entity.QuoteNotification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &notification, err
}

func (r *quoteNotificationRepository) List(ctx context.Context, params *pagination.PaginationParams, email string) ([]entity.QuoteNotification, int64, error) {
	var notifications []entity.QuoteNotification
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.QuoteNotification{})
	if email != "" {
		query = query.Where("client_email = ?", email)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&notifications).Error

	return notifications, total, err
}
