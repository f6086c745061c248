package controllers

import (
	"net/http"

	"fitgenix/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// POST /api/user/details
func (uc *UserController) UpdateDetails(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.DetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	details, err := uc.Users.UpdateDetails(c.Request.Context(), uid, input)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated", "details": details})
}

// POST /api/user/goals
func (uc *UserController) UpdateGoals(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.GoalsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	goals, err := uc.Users.UpdateGoals(uid, input)
	if err != nil {
		respondError(c, err, "Failed to update goals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "goals": goals})
}
