package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DispatchFailure records one failed quote notification dispatch. The table
// is append-only: entries are written when a dispatch fails and are never
// updated or retried automatically.
type DispatchFailure struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	Endpoint   string    `gorm:"size:255;not null" json:"endpoint"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	StatusCode *int      `json:"status_code,omitempty"`
	Reason     string    `gorm:"size:512" json:"reason"`
	FailedAt   time.Time `gorm:"not null;index" json:"failed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before recording a new failure
func (f *DispatchFailure) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DispatchFailure model
func (DispatchFailure) TableName() string {
	return "dispatch_failures"
}
