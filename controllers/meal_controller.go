package controllers

import (
	"net/http"

	"fitgenix/models"
	"fitgenix/services"

	"github.com/gin-gonic/gin"
)

type MealPlanController struct {
	Plans *services.MealPlanService
}

func NewMealPlanController(plans *services.MealPlanService) *MealPlanController {
	return &MealPlanController{Plans: plans}
}

// GET /api/meal-plan
func (mc *MealPlanController) Get(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	plan, err := mc.Plans.Get(uid)
	if err != nil {
		respondError(c, err, "Failed to fetch meal plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mealPlan": plan})
}

// POST /api/meal-plan/save
func (mc *MealPlanController) Save(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input struct {
		MealPlan models.RawMealPlan `json:"mealPlan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if err := mc.Plans.Save(uid, input.MealPlan); err != nil {
		respondError(c, err, "Failed to save meal plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/meal-plan/generate
func (mc *MealPlanController) Generate(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var input services.GenerateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	plan, err := mc.Plans.Generate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "AI meal plan generation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mealPlan": plan})
}

// POST /api/meal-plan/suggest-alternative
func (mc *MealPlanController) SuggestAlternative(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var input services.AlternativeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	alt, err := mc.Plans.SuggestAlternative(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Could not suggest alternative")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alternative": alt})
}
