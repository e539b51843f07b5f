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

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact form repository
func NewContactRepository(db *gorm.DB) domainRepo.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	var message entity.ContactMessage
	err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &message, err
}

func (r *contactRepository) MarkHandled(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.ContactMessage{}).
		Where("id = ?", id).
		Update("handled", true).Error
}

func (r *contactRepository) List(ctx context.Context, params *pagination.PaginationParams, onlyUnhandled bool) ([]entity.ContactMessage, int64, error) {
	var messages []entity.ContactMessage
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ContactMessage{})
	if onlyUnhandled {
		query = query.Where("handled = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&messages).Error

	return messages, total, err
}
