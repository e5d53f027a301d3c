package api

import (
	"net/http"

	"alcyxob/fitness-coach/internal/executor"
	"alcyxob/fitness-coach/internal/service"
	"alcyxob/fitness-coach/internal/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	libraryService service.LibraryService,
	coachService service.CoachService,
	historyService service.HistoryService,
	actionExecutor *executor.Executor,
	fileStorage storage.FileStorage,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService)
	libraryHandler := NewLibraryHandler(libraryService, fileStorage)
	chatHandler := NewChatHandler(coachService, actionExecutor)
	historyHandler := NewHistoryHandler(historyService, planService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})
		protected.PUT("/me/profile", authHandler.UpdateProfile)

		// --- Workout Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.GetPlans)
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.DELETE("/:planId", planHandler.Delete)
			planGroup.PUT("/:planId/name", planHandler.Rename)

			// Lifecycle transitions
			planGroup.POST("/:planId/pause", planHandler.Pause)
			planGroup.POST("/:planId/resume", planHandler.Resume)
			planGroup.POST("/:planId/archive", planHandler.Archive)
			planGroup.POST("/:planId/restore", planHandler.Restore)
			planGroup.POST("/:planId/extend", planHandler.Extend)

			// Schedule edits
			planGroup.PUT("/:planId/days/:day", planHandler.UpdateDay)
			planGroup.PATCH("/:planId/days/:day/exercises/:exerciseId", planHandler.UpdateExercise)
		}

		// --- Exercise Library Routes ---
		libraryGroup := protected.Group("/exercises")
		{
			libraryGroup.GET("", libraryHandler.GetExercises)
			libraryGroup.POST("", libraryHandler.CreateExercise)
			libraryGroup.GET("/:exerciseId", libraryHandler.GetExercise)
			libraryGroup.PUT("/:exerciseId", libraryHandler.UpdateExercise)
			libraryGroup.DELETE("/:exerciseId", libraryHandler.DeleteExercise)
			libraryGroup.POST("/:exerciseId/media/upload-url", libraryHandler.GetMediaUploadURL)
			libraryGroup.GET("/:exerciseId/media/download-url", libraryHandler.GetMediaDownloadURL)
		}

		// --- Conversational Coach Routes ---
		chatGroup := protected.Group("/chat")
		{
			chatGroup.POST("", chatHandler.Converse)
			chatGroup.POST("/actions", chatHandler.ApplyActions)
		}

		// --- History & Dashboard Routes ---
		historyGroup := protected.Group("/history")
		{
			historyGroup.POST("", historyHandler.LogWorkout)
			historyGroup.GET("", historyHandler.GetHistory)
			historyGroup.DELETE("/:logId", historyHandler.DeleteEntry)
		}
		protected.GET("/dashboard", historyHandler.GetDashboard)
	}
}
