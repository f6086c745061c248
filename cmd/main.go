package main

import (
	"context"

	"fitgenix/config"
	"fitgenix/controllers"
	"fitgenix/routes"
	"fitgenix/services"
	"fitgenix/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		utils.Log.Fatalf("config: %v", err)
	}
	gin.SetMode(settings.GinMode)
	utils.InitLogger(settings.LogLevel, settings.GinMode == gin.ReleaseMode)

	db, err := config.InitDB(settings)
	if err != nil {
		utils.Log.Fatal(err)
	}

	ctx := context.Background()
	var uploader services.ImageUploader
	if settings.S3Bucket != "" {
		up, err := utils.NewS3Uploader(ctx, settings.S3Region, settings.S3Bucket, settings.CloudFrontURL)
		if err != nil {
			utils.Log.Fatal(err)
		}
		uploader = up
	}
	var mailer services.Mailer
	if settings.SESEmail != "" {
		m, err := utils.NewSESMailer(ctx, settings.AWSRegion, settings.SESEmail)
		if err != nil {
			utils.Log.Fatal(err)
		}
		mailer = m
	}
	if len(settings.GroqKeys) == 0 {
		utils.Log.Warn("no GROQ_API_KEY configured; AI lookups will use fallback data")
	}

	hub := services.NewRealtimeHub()
	llm := services.NewLLMClient(
		services.NewKeyPool(settings.GroqKeys...),
		services.OpenAICompatible(settings.GroqBaseURL, settings.GroqModel),
	)
	logs := services.NewDailyLogService(db, settings.Location, hub)

	r := routes.SetupRouter(routes.Deps{
		JWTSecret:   settings.JWTSecret,
		CORSOrigins: settings.CORSOrigins,
		Auth:        controllers.NewAuthController(services.NewAuthService(db, settings.JWTSecret, mailer)),
		Users:       controllers.NewUserController(services.NewUserService(db, uploader)),
		Logs:        controllers.NewDailyLogController(logs),
		AI:          controllers.NewAIController(services.NewAIService(llm, services.NewYouTubeService(settings.YouTubeAPIKey))),
		MealPlan:    controllers.NewMealPlanController(services.NewMealPlanService(db, llm, logs)),
		Realtime:    controllers.NewRealtimeController(hub, settings.CORSOrigins),
	})

	utils.Log.WithField("port", settings.Port).Info("server starting")
	if err := r.Run(":" + settings.Port); err != nil {
		utils.Log.Fatal(err)
	}
}
