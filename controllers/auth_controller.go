package controllers

import (
	"net/http"

	"fitgenix/models"
	"fitgenix/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Details   models.Details `json:"details"`
	IsNewUser bool           `json:"isNewUser"`
}

func toUserResponse(u *models.User, isNew bool) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Details: u.Details, IsNewUser: isNew}
}

// POST /api/register
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	token, user, err := ac.Auth.Register(input.Name, input.Email, input.Password)
	if err != nil {
		respondError(c, err, "Server Error during signup")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": toUserResponse(user, true)})
}

// POST /api/login
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	token, user, err := ac.Auth.Login(input.Email, input.Password)
	if err != nil {
		respondError(c, err, "Server Error during login")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": toUserResponse(user, user.IsNew())})
}

// POST /api/forgot-password
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := ac.Auth.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		respondError(c, err, "Failed to send reset code")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset code has been sent"})
}

// POST /api/reset-password
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := ac.Auth.ResetPassword(input.Token, input.NewPassword); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
