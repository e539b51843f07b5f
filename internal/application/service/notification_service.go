package service

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/pricing"
	"github.com/onusexpress/courier-api/pkg/apperror"
	"github.com/onusexpress/courier-api/pkg/email"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// NotificationService receives quote summaries, stores them for the
// commercial team, and forwards them to the sales inbox
type NotificationService struct {
	notificationRepo repository.QuoteNotificationRepository
	emailService     *email.EmailService
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo repository.QuoteNotificationRepository,
	emailService *email.EmailService,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		emailService:     emailService,
	}
}

// Receive validates an inbound quote summary, persists it, and forwards it
// by email. A stored notification is not rolled back when SMTP fails; the
// caller gets EMAIL_SEND_FAILED so the sender can queue a retry.
func (s *NotificationService) Receive(ctx context.Context, payload *DispatchPayload) (*entity.QuoteNotification, error) {
	if payload.ClienteNombre == "" || payload.ClienteEmail == "" || len(payload.Items) == 0 || payload.Total == 0 {
		return nil, apperror.NewBadRequestError("INVALID_PAYLOAD")
	}
	if len(payload.Items) > maxDispatchItems {
		return nil, apperror.NewBadRequestError("Too many items")
	}

	itemsJSON, err := json.Marshal(payload.Items)
	if err != nil {
		return nil, err
	}

	notification := &entity.QuoteNotification{
		ClientName:  payload.ClienteNombre,
		ClientEmail: payload.ClienteEmail,
		Tarifario:   payload.Tarifario,
		Total:       payload.Total,
		Items:       string(itemsJSON),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	items := make([]email.QuoteItem, 0, len(payload.Items))
	for _, i := range payload.Items {
		items = append(items, email.QuoteItem{
			Name:     i.Nombre,
			Quantity: i.Cantidad,
			Price:    pricing.FormatAmount(i.Precio),
		})
	}
	if err := s.emailService.SendQuoteSummaryEmail(
		payload.ClienteNombre,
		payload.ClienteEmail,
		payload.Tarifario,
		pricing.FormatAmount(payload.Total),
		items,
	); err != nil {
		log.Printf("Warning: quote summary email failed: %v", err)
		return nil, apperror.NewAppError(http.StatusBadGateway, "EMAIL_SEND_FAILED")
	}

	return notification, nil
}

// Get returns one stored notification
func (s *NotificationService) Get(ctx context.Context, id uuid.UUID) (*entity.QuoteNotification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, apperror.NewNotFoundError("Quote notification")
	}
	return notification, nil
}

// List returns stored notifications, optionally filtered by client email
func (s *NotificationService) List(ctx context.Context, params *pagination.PaginationParams, emailFilter string) ([]entity.QuoteNotification, int64, error) {
	return s.notificationRepo.List(ctx, params, emailFilter)
}
