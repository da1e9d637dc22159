// internal/interfaces/http/handlers/user.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/middleware"
)

// forgotPasswordMessage is returned whether or not the account exists
const forgotPasswordMessage = "If an account exists for this email, a password reset link has been sent."

// UserHandler handles account endpoints
type UserHandler struct {
	userService *user.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// ForgotPasswordRequest is the body of POST /users/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest is the body of POST /users/reset-password
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	response, err := h.userService.Login(c.Request.Context(), &req)
	if errors.Is(err, user.ErrInvalidCredentials) {
		// Same answer for unknown email and wrong password
		c.JSON(http.StatusBadRequest, gin.H{
			"error": user.ErrInvalidCredentials.Error(),
		})
		return
	}
	if err != nil {
		internalError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.userService.Register(c.Request.Context(), &req)
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, user.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		internalError(c, "Registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.authorizeSelf(c)
	if !ok {
		return
	}

	u, err := h.userService.GetProfile(c.Request.Context(), id)
	if errors.Is(err, user.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		internalError(c, "Failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.authorizeSelf(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), id, &req)
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	case err != nil:
		internalError(c, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ForgotPassword handles POST /users/forgot-password
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.userService.ForgotPassword(c.Request.Context(), req.Email)

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

// ResetPassword handles POST /users/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.userService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case errors.Is(err, user.ErrInvalidResetToken), errors.Is(err, user.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		internalError(c, "Failed to reset password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// authorizeSelf allows access to a user record by its owner or an admin
func (h *UserHandler) authorizeSelf(c *gin.Context) (uint, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return 0, false
	}

	callerID, _ := middleware.GetUserIDFromContext(c)
	if callerID != id && !middleware.IsAdminFromContext(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return 0, false
	}
	return id, true
}
