package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByCourierCode(ctx context.Context, code string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *UserFilterParams) ([]entity.User, int64, error)
}

// UserFilterParams contains filtering parameters for account queries
type UserFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Role       *enum.Role
	Status     *enum.AccountStatus
}

// PasswordResetTokenRepository defines the interface for password reset
// token operations. Tokens are looked up by their stored hash, never by
// the raw token value.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)
	Consume(ctx context.Context, tokenHash string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context) error
}

// CredentialAuditRepository defines the interface for credential issue
// audit operations
type CredentialAuditRepository interface {
	// Upsert records a credential issue, incrementing the count when a
	// row for the account already exists
	Upsert(ctx context.Context, audit *entity.CredentialAudit) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.CredentialAudit, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CredentialAudit, int64, error)
}
