package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/pkg/apperror"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// LeadService handles messages submitted through the public contact form
type LeadService struct {
	contactRepo repository.ContactRepository
}

// NewLeadService creates a new lead service
func NewLeadService(contactRepo repository.ContactRepository) *LeadService {
	return &LeadService{contactRepo: contactRepo}
}

// ContactInput represents a contact form submission
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Subject string
	Message string
}

// Submit stores a contact form submission
func (s *LeadService) Submit(ctx context.Context, input *ContactInput) (*entity.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	body := strings.TrimSpace(input.Message)
	if name == "" || email == "" || body == "" {
		return nil, apperror.NewBadRequestError("Name, email and message are required")
	}

	message := &entity.ContactMessage{
		Name:    name,
		Email:   email,
		Message: body,
	}
	if input.Phone != "" {
		message.Phone = &input.Phone
	}
	if input.Company != "" {
		message.Company = &input.Company
	}
	if input.Subject != "" {
		message.Subject = &input.Subject
	}

	if err := s.contactRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Get returns one contact message
func (s *LeadService) Get(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	message, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperror.NewNotFoundError("Contact message")
	}
	return message, nil
}

// MarkHandled flags a contact message as dealt with
func (s *LeadService) MarkHandled(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	message, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperror.NewNotFoundError("Contact message")
	}
	if err := s.contactRepo.MarkHandled(ctx, id); err != nil {
		return nil, err
	}
	message.Handled = true
	return message, nil
}

// List returns contact messages, newest first
func (s *LeadService) List(ctx context.Context, params *pagination.PaginationParams, onlyUnhandled bool) (*pagination.PaginatedResult[entity.ContactMessage], error) {
	messages, total, err := s.contactRepo.List(ctx, params, onlyUnhandled)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(messages, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
