package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage represents a message submitted through the public
// contact form
type ContactMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     string         `gorm:"size:255;not null;index" json:"email"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Company   *string        `gorm:"size:255" json:"company,omitempty"`
	Subject   *string        `gorm:"size:255" json:"subject,omitempty"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Handled   bool           `gorm:"default:false;index" json:"handled"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new contact message
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ContactMessage model
func (ContactMessage) TableName() string {
	return "contact_messages"
}
