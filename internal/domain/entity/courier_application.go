package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onusexpress/courier-api/internal/domain/enum"
)

// CourierApplication represents one courier's application to a campaign.
// The applicant may hold a registered account; walk-in applications carry
// their contact data inline.
type CourierApplication struct {
	ID           uuid.UUID               `gorm:"type:uuid;primary_key" json:"id"`
	CampaignID   uuid.UUID               `gorm:"type:uuid;not null;index" json:"campaign_id"`
	UserID       *uuid.UUID              `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name         string                  `gorm:"size:255;not null" json:"name"`
	Email        string                  `gorm:"size:255;not null" json:"email"`
	Phone        *string                 `gorm:"size:50" json:"phone,omitempty"`
	Motivation   *string                 `gorm:"type:text" json:"motivation,omitempty"`
	Experience   *string                 `gorm:"type:text" json:"experience,omitempty"`
	Availability *string                 `gorm:"size:255" json:"availability,omitempty"`
	Status       enum.ApplicationStatus  `gorm:"default:0;index" json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
	DeletedAt    gorm.DeletedAt          `gorm:"index" json:"-"`

	// Relationships
	Campaign Campaign `gorm:"foreignKey:CampaignID" json:"-"`
	User     *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate generates a UUID before creating a new application
func (a *CourierApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CourierApplication model
func (CourierApplication) TableName() string {
	return "courier_applications"
}
