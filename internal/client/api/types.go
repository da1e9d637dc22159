// internal/client/api/types.go
package api

import (
	"regexp"
	"strings"

	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
)

// MinPasswordLength mirrors the server-side password policy
const MinPasswordLength = 6

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// ValidateEmail checks the basic local@domain shape
func ValidateEmail(email string) error {
	if !emailShape.MatchString(strings.TrimSpace(email)) {
		return apperrors.NewValidationError("email", "must look like name@domain")
	}
	return nil
}

// ValidatePassword checks the minimum password length
func ValidatePassword(field, password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidationError(field, "must be at least 6 characters")
	}
	return nil
}

// User is the backend user record
type User struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
}

// DisplayName joins first and last name
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// LoginRequest is the body of POST /users/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate runs the client-side login pre-checks
func (r LoginRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword("password", r.Password)
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID ID     `json:"userId"`
}

// SignupRequest is the body of POST /users
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// Validate checks required signup fields
func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return apperrors.NewValidationError("firstName", "is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return apperrors.NewValidationError("lastName", "is required")
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword("password", r.Password)
}

// UpdateUserRequest is a partial update for PUT /users/:id
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Validate rejects blank names and empty updates
func (r UpdateUserRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Phone == nil {
		return apperrors.NewValidationError("", "nothing to update")
	}
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		return apperrors.NewValidationError("firstName", "cannot be empty")
	}
	if r.LastName != nil && strings.TrimSpace(*r.LastName) == "" {
		return apperrors.NewValidationError("lastName", "cannot be empty")
	}
	return nil
}

// ForgotPasswordRequest is the body of POST /users/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /users/reset-password
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Validate checks the token and new password
func (r ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return apperrors.NewValidationError("token", "is required")
	}
	return ValidatePassword("newPassword", r.NewPassword)
}

// MessageResponse is a plain confirmation body
type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse is returned by POST /upload
type UploadResponse struct {
	Path string `json:"path"`
}

// Category is a product category
type Category struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Color is a selectable product color
type Color struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// Size is a selectable product size
type Size struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog product. Price is in minor currency units.
type Product struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	CategoryID  ID        `json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
	Colors      []Color   `json:"colors"`
	Sizes       []Size    `json:"sizes"`
	Image       string    `json:"image,omitempty"`
	Rating      float64   `json:"rating"`
	Reviews     int       `json:"reviews"`
	Brand       string    `json:"brand,omitempty"`
}

// ProductQuery narrows GET /products
type ProductQuery struct {
	CategoryID ID
	Query      string
}
