package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuoteNotification represents one received quote summary. The commercial
// team reviews these; items are stored as the JSON array received on the
// wire.
type QuoteNotification struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClientName  string         `gorm:"size:255;not null" json:"cliente_nombre"`
	ClientEmail string         `gorm:"size:255;not null;index" json:"cliente_email"`
	Tarifario   string         `gorm:"size:255;not null" json:"tarifario"`
	Total       float64        `gorm:"type:decimal(15,2);not null" json:"total"`
	Items       string         `gorm:"type:text;not null" json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new notification
func (n *QuoteNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuoteNotification model
func (QuoteNotification) TableName() string {
	return "quote_notifications"
}
