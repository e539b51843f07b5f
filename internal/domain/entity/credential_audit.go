package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CredentialAudit records each time an administrator issues a temporary
// password for a pending account. One row per account, updated in place on
// re-issue.
type CredentialAudit struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	IssuedBy    string    `gorm:"size:255;not null" json:"issued_by"`
	IssuedAt    time.Time `gorm:"not null" json:"issued_at"`
	IssuedCount int       `gorm:"default:1" json:"issued_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new audit row
func (a *CredentialAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CredentialAudit model
func (CredentialAudit) TableName() string {
	return "credential_audits"
}
