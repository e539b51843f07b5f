package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetToken represents a single-use password reset token.
// Only the SHA-256 hex digest of the token is stored.
type PasswordResetToken struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email      string     `gorm:"size:255;not null;index" json:"email"`
	TokenHash  string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new token
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsValid reports whether the token can still be redeemed at the given time
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return t.ConsumedAt == nil && now.Before(t.ExpiresAt)
}
