package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/enum"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/pkg/apperror"
	"github.com/onusexpress/courier-api/pkg/email"
	"github.com/onusexpress/courier-api/pkg/utils"
)

// resetTokenTTL bounds how long a password reset link stays valid
const resetTokenTTL = time.Hour

// AuthService handles authentication and credential lifecycle operations
type AuthService struct {
	userRepo          repository.UserRepository
	passwordResetRepo repository.PasswordResetTokenRepository
	auditRepo         repository.CredentialAuditRepository
	jwtManager        *utils.JWTManager
	emailService      *email.EmailService
	adminPIN          string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	passwordResetRepo repository.PasswordResetTokenRepository,
	auditRepo repository.CredentialAuditRepository,
	jwtManager *utils.JWTManager,
	emailService *email.EmailService,
	adminPIN string,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordResetRepo: passwordResetRepo,
		auditRepo:         auditRepo,
		jwtManager:        jwtManager,
		emailService:      emailService,
		adminPIN:          adminPIN,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates an account and returns a token. Pending and
// suspended accounts are rejected even with the right password.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	switch user.Status {
	case enum.AccountStatusPendiente:
		return nil, apperror.ErrAccountPending
	case enum.AccountStatusSuspendido:
		return nil, apperror.ErrAccountSuspended
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &LoginOutput{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
// The account is re-checked so a suspension revokes refresh too.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}
	if user.Status != enum.AccountStatusActivo {
		return nil, apperror.ErrAccountSuspended
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &LoginOutput{User: user, AccessToken: accessToken, RefreshToken: newRefresh}, nil
}

// AdminPINLogin exchanges the back-office PIN for a short-lived admin
// token. The comparison is constant time.
func (s *AuthService) AdminPINLogin(pin string) (string, error) {
	if s.adminPIN == "" {
		return "", apperror.ErrPINNotConfigured
	}
	if pin == "" {
		return "", apperror.ErrPINRequired
	}
	if !utils.SecureCompare(pin, s.adminPIN) {
		return "", apperror.ErrInvalidPIN
	}
	return s.jwtManager.GenerateAdminToken()
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Role    enum.Role
}

// Register creates a pending account. No password is set here; an
// administrator issues credentials to activate the account. Courier
// registrations get a courier code immediately.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	if input.Role == enum.RoleAdmin {
		return nil, apperror.NewBadRequestError("Cannot register admin accounts")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	user := &entity.User{
		Name:   input.Name,
		Email:  input.Email,
		Role:   input.Role,
		Status: enum.AccountStatusPendiente,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if input.Company != "" {
		user.Company = &input.Company
	}
	if input.Role == enum.RoleMensajero {
		code := utils.GenerateCourierCode()
		user.CourierCode = &code
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueCredentials generates a temporary password for a pending client
// account, activates it, emails the credentials, and upserts the audit
// row. issuedBy names the administrator session performing the action.
func (s *AuthService) IssueCredentials(ctx context.Context, userID uuid.UUID, issuedBy string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	if user.Role != enum.RoleCliente {
		return nil, apperror.NewBadRequestError("Solo se permite reset para rol cliente")
	}

	tempPassword, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	user.Password = hashed
	user.Status = enum.AccountStatusActivo
	user.MustChangePassword = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	audit := &entity.CredentialAudit{
		UserID:   user.ID,
		IssuedBy: issuedBy,
		IssuedAt: time.Now(),
	}
	if err := s.auditRepo.Upsert(ctx, audit); err != nil {
		log.Printf("Warning: failed to record credential audit: %v", err)
	}

	if err := s.emailService.SendTemporaryCredentialsEmail(user.Email, user.Name, tempPassword); err != nil {
		log.Printf("Warning: credentials email failed for %s: %v", user.Email, err)
	}

	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword verifies the current password and replaces it, clearing
// the forced-change flag set by credential issue
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("Account")
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.ErrInvalidCredentials
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.MustChangePassword = false
	return s.userRepo.Update(ctx, user)
}

// RequestPasswordReset issues a reset token and emails the reset link.
// Unknown emails return success to avoid account enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive() {
		return nil
	}

	if err := s.passwordResetRepo.DeleteByEmail(ctx, emailAddr); err != nil {
		return err
	}

	token, hash, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}
	resetToken := &entity.PasswordResetToken{
		Email:     emailAddr,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.passwordResetRepo.Create(ctx, resetToken); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(emailAddr, token); err != nil {
		log.Printf("Warning: reset email failed for %s: %v", emailAddr, err)
	}
	return nil
}

// ResetPassword redeems a reset token and sets the new password
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash := utils.HashToken(token)
	resetToken, err := s.passwordResetRepo.GetByHash(ctx, hash)
	if err != nil {
		return err
	}
	if resetToken == nil || !resetToken.IsValid(time.Now()) {
		return apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByEmail(ctx, resetToken.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrInvalidToken
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.MustChangePassword = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return s.passwordResetRepo.Consume(ctx, hash)
}

// GetAccount returns one account by id
func (s *AuthService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return user, nil
}

// ListAccounts returns accounts matching the filters
func (s *AuthService) ListAccounts(ctx context.Context, params *repository.UserFilterParams) ([]entity.User, int64, error) {
	return s.userRepo.List(ctx, params)
}
