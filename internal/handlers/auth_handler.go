package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/gridworks/plotregistry/api/internal/errors"
	"github.com/gridworks/plotregistry/api/internal/middleware"
	"github.com/gridworks/plotregistry/api/internal/services"
)

// AuthHandler handles authentication and account HTTP requests.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AddUserRequest represents the user creation request body.
type AddUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Role     string  `json:"role"`
}

// UpdatePasswordRequest represents the admin password update request body.
type UpdatePasswordRequest struct {
	UserID      int    `json:"userId" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ForgotPasswordRequest represents the reset-request body. The identifier
// may be a username or an email address.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// ResetPasswordRequest represents the token redemption body.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login.
// On success the user record is returned without its credential fields; on
// failure the message never distinguishes unknown users from bad passwords.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Invalid credentials")
			return
		}
		apierrors.InternalServerError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AddUser handles POST /api/users/add.
func (h *AuthHandler) AddUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if err := h.service.CreateUser(c.Request.Context(), req.Username, req.Password, req.Email, req.Name, req.Role); err != nil {
		apierrors.InternalServerError(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdatePassword handles POST /api/users/update-password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if err := h.service.UpdatePassword(c.Request.Context(), req.UserID, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to update password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ForgotPassword handles POST /api/forgot-password.
// The response is always success-shaped so the endpoint cannot be used to
// enumerate accounts; failures are logged server-side only.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if err := h.service.RequestPasswordReset(c.Request.Context(), req.Identifier); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Password reset request failed", err, nil)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If the account exists, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			apierrors.BadRequest(c, "Invalid or expired reset token", nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to reset password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
