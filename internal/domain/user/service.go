// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/auth"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrInvalidInput wraps request validation failures
	ErrInvalidInput = errors.New("invalid input")
)

// Mailer delivers account emails
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

// Service handles user business logic
type Service struct {
	repo            Repository
	resetTokens     ResetTokenStore
	mailer          Mailer
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	resetExpiry     time.Duration
	log             logrus.FieldLogger
}

// NewService creates a new user service
func NewService(repo Repository, resetTokens ResetTokenStore, mailer Mailer, cfg *config.Config, log logrus.FieldLogger) *Service {
	return &Service{
		repo:            repo,
		resetTokens:     resetTokens,
		mailer:          mailer,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		resetExpiry:     cfg.Security.PasswordResetExpiry,
		log:             log.WithField("component", "user_service"),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the body returned by a successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
}

// UpdateProfileRequest carries a partial profile update
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Check if user already exists
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Email:     NormalizeEmail(req.Email),
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login authenticates a user and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &LoginResponse{Token: token, UserID: u.ID}, nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(ctx context.Context, userID uint) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update and returns the fresh record
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*User, error) {
	updates := make(map[string]interface{})
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrInvalidInput)
		}
		updates["first_name"] = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, fmt.Errorf("%w: last name cannot be empty", ErrInvalidInput)
		}
		updates["last_name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, userID)
}

// ForgotPassword issues a reset token and mails it when the account exists.
// The outcome is never reported to the caller so responses cannot reveal
// which emails have accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.WithError(err).Error("password reset lookup failed")
		}
		return
	}

	token := uuid.NewString()
	if err := s.resetTokens.Save(ctx, token, u.ID, s.resetExpiry); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Error("failed to store reset token")
		return
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, u.Email, u.GetFullName(), token); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Error("failed to send reset email")
		return
	}

	s.log.WithField("user_id", u.ID).Info("password reset requested")
}

// ResetPassword sets a new password using a single-use reset token
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.passwordManager.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	userID, err := s.resetTokens.Consume(ctx, token)
	if err != nil {
		return err
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.repo.Update(ctx, userID, map[string]interface{}{"password": hashedPassword}); err != nil {
		return err
	}

	s.log.WithField("user_id", userID).Info("password reset completed")
	return nil
}
