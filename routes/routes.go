package routes

import (
	"net/http"

	"fitgenix/controllers"
	"fitgenix/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWTSecret   string
	CORSOrigins []string

	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Logs     *controllers.DailyLogController
	AI       *controllers.AIController
	MealPlan *controllers.MealPlanController
	Realtime *controllers.RealtimeController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), corsMiddleware(d.CORSOrigins))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "FitGenix API is running")
	})

	api := r.Group("/api")

	// Public routes
	{
		api.POST("/register", d.Auth.Register)
		api.POST("/login", d.Auth.Login)
		api.POST("/forgot-password", d.Auth.ForgotPassword)
		api.POST("/reset-password", d.Auth.ResetPassword)

		api.POST("/chatbot", d.AI.Chatbot)
		api.POST("/exercises", d.AI.Exercises)
		api.POST("/diet", d.AI.Diet)
		api.POST("/workout-plans", d.AI.WorkoutPlans)
	}

	// Protected routes
	authed := api.Group("")
	authed.Use(middlewares.AuthMiddleware(d.JWTSecret))
	{
		authed.GET("/dashboard", d.Logs.Dashboard)
		authed.GET("/ws", d.Realtime.LogUpdatesWS)

		user := authed.Group("/user")
		user.POST("/details", d.Users.UpdateDetails)
		user.POST("/goals", d.Users.UpdateGoals)
		user.POST("/log/exercise", d.Logs.LogExercise)
		user.POST("/log/exercises/bulk", d.Logs.LogExercisesBulk)
		user.POST("/log/exercise/toggle", d.Logs.ToggleExercise)
		user.POST("/log/exercise/delete", d.Logs.DeleteExercise)
		user.POST("/log/food", d.Logs.LogFood)

		plan := authed.Group("/meal-plan")
		plan.GET("", d.MealPlan.Get)
		plan.POST("/save", d.MealPlan.Save)
		plan.POST("/generate", d.MealPlan.Generate)
		plan.POST("/suggest-alternative", d.MealPlan.SuggestAlternative)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}
