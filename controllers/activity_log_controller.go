package controllers

import (
	"fmt"
	"net/http"

	"fitgenix/models"
	"fitgenix/services"

	"github.com/gin-gonic/gin"
)

type DailyLogController struct {
	Logs *services.DailyLogService
}

func NewDailyLogController(logs *services.DailyLogService) *DailyLogController {
	return &DailyLogController{Logs: logs}
}

type exerciseRef struct {
	Date       string `json:"date" binding:"required"`
	ExerciseID string `json:"exerciseId" binding:"required"`
}

// GET /api/dashboard?date=YYYY-MM-DD
func (lc *DailyLogController) Dashboard(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	user, log, err := lc.Logs.Dashboard(uid, c.Query("date"))
	if err != nil {
		respondError(c, err, "Failed to fetch dashboard")
		return
	}

	resp := gin.H{"user": user, "summary": services.Summarize(log)}
	if log != nil {
		resp["todayLog"] = log
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/user/log/exercise
func (lc *DailyLogController) LogExercise(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input services.ExerciseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	log, err := lc.Logs.LogExercise(uid, input)
	if err != nil {
		respondError(c, err, "Failed to log exercise")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "todayLog": log})
}

// POST /api/user/log/exercises/bulk
func (lc *DailyLogController) LogExercisesBulk(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input struct {
		Exercises []services.ExerciseInput `json:"exercises" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	n, err := lc.Logs.LogExercises(uid, input.Exercises)
	if err != nil {
		respondError(c, err, "Failed to log exercises in bulk")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("%d exercises added", n)})
}

// POST /api/user/log/food
func (lc *DailyLogController) LogFood(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input struct {
		MealType string          `json:"mealType" binding:"required"`
		FoodItem models.FoodItem `json:"foodItem"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	log, err := lc.Logs.LogFood(uid, input.MealType, input.FoodItem)
	if err != nil {
		respondError(c, err, "Failed to log food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "todayLog": log})
}

// POST /api/user/log/exercise/toggle
func (lc *DailyLogController) ToggleExercise(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input exerciseRef
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	completed, err := lc.Logs.ToggleExercise(uid, input.Date, input.ExerciseID)
	if err != nil {
		respondError(c, err, "Failed to toggle exercise")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "completed": completed})
}

// POST /api/user/log/exercise/delete
func (lc *DailyLogController) DeleteExercise(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	var input exerciseRef
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if err := lc.Logs.DeleteExercise(uid, input.Date, input.ExerciseID); err != nil {
		respondError(c, err, "Failed to delete exercise")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
