package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/onusexpress/courier-api/internal/domain/enum"
)

// User represents a client, courier, or administrator account.
// Client and courier accounts start pending; an administrator issues a
// temporary password to activate them.
type User struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Name               string             `gorm:"size:255;not null" json:"name"`
	Email              string             `gorm:"size:255;unique;not null" json:"email"`
	Password           string             `gorm:"size:255" json:"-"`
	Phone              *string            `gorm:"size:50" json:"phone,omitempty"`
	Company            *string            `gorm:"size:255" json:"company,omitempty"`
	CourierCode        *string            `gorm:"size:20;uniqueIndex" json:"courier_code,omitempty"`
	Role               enum.Role          `gorm:"default:0" json:"role"`
	Status             enum.AccountStatus `gorm:"default:0" json:"status"`
	MustChangePassword bool               `gorm:"default:false" json:"must_change_password"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Applications []CourierApplication `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account can authenticate
func (u *User) IsActive() bool {
	return u.Status == enum.AccountStatusActivo
}

// IsAdmin reports whether the account holds the administrator role
func (u *User) IsAdmin() bool {
	return u.Role == enum.RoleAdmin
}
