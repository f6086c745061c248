package controllers

import (
	"net/http"

	"fitgenix/services"

	"github.com/gin-gonic/gin"
)

// AIController serves the model-backed lookups. They need no session.
type AIController struct {
	AI *services.AIService
}

func NewAIController(ai *services.AIService) *AIController {
	return &AIController{AI: ai}
}

type queryInput struct {
	Query string `json:"query" binding:"required"`
}

// POST /api/chatbot
func (ac *AIController) Chatbot(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := ac.AI.Chat(c.Request.Context(), input.Message)
	if err != nil {
		respondError(c, err, "AI Service Unavailable. Please check API Key.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// POST /api/exercises
func (ac *AIController) Exercises(c *gin.Context) {
	var input queryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, ac.AI.LookupExercises(c.Request.Context(), input.Query))
}

// POST /api/diet
func (ac *AIController) Diet(c *gin.Context) {
	var input struct {
		Query       string `json:"query" binding:"required"`
		ServingSize string `json:"servingSize"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, ac.AI.LookupNutrition(c.Request.Context(), input.Query, input.ServingSize))
}

// POST /api/workout-plans
func (ac *AIController) WorkoutPlans(c *gin.Context) {
	var input queryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, ac.AI.GenerateWorkoutPlan(c.Request.Context(), input.Query))
}
