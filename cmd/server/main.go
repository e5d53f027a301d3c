package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-coach/internal/ai"
	"alcyxob/fitness-coach/internal/api"
	"alcyxob/fitness-coach/internal/cache"
	"alcyxob/fitness-coach/internal/config"
	"alcyxob/fitness-coach/internal/executor"
	"alcyxob/fitness-coach/internal/repository/mongo"
	"alcyxob/fitness-coach/internal/service"
	"alcyxob/fitness-coach/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Fitness Coach Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("library_exercises"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("workout_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	// Media storage is optional; without credentials the media endpoints
	// answer 501 and the rest of the app works normally.
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing file storage service...")
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("No S3 bucket configured, media endpoints disabled.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)

	// --- Initialize AI Client & Orchestrator ---
	retryCfg := ai.DefaultRetryConfig()
	if cfg.Anthropic.MaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.Anthropic.MaxRetries
	}
	aiOpts := []ai.ClientOption{ai.WithLogger(logger), ai.WithRetryConfig(retryCfg)}
	if cfg.Anthropic.BaseURL != "" {
		aiOpts = append(aiOpts, ai.WithBaseURL(cfg.Anthropic.BaseURL))
	}
	aiClient := ai.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Anthropic.Timeout, aiOpts...)
	orchestrator := ai.NewOrchestrator(aiClient, logger)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	exerciseCache := cache.NewMemoryCache(cfg.Cache.ExerciseTTL)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(planRepo, logger)
	libraryService := service.NewLibraryService(exerciseRepo, exerciseCache)
	historyService := service.NewHistoryService(workoutLogRepo)
	coachService := service.NewCoachService(userRepo, planService, libraryService, exerciseCache, orchestrator, logger)
	actionExecutor := executor.New(planService, libraryService, logger)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, libraryService, coachService, historyService, actionExecutor, fileStorage)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // chat turns wait on the model provider
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
