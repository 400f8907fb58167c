package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-ai/internal/api"
	"alcyxob/fitness-ai/internal/config"
	"alcyxob/fitness-ai/internal/generator"
	"alcyxob/fitness-ai/internal/repository/mongo"
	"alcyxob/fitness-ai/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}
	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	log.Info("configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureGoalIndexes(ctx, appDB.Collection("goals"))
		mongo.EnsureHealthProfileIndexes(ctx, appDB.Collection("user_health_profiles"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("plans"))
		mongo.EnsureRoutineIndexes(ctx, appDB.Collection("routines"))
		mongo.EnsureScheduleIndexes(ctx, appDB.Collection("weekly_schedule"))
		mongo.EnsureCompletionIndexes(ctx, appDB.Collection("daily_completion_history"))
		log.Info("index creation process completed")
	}()

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	goalRepo := mongo.NewMongoGoalRepository(appDB)
	profileRepo := mongo.NewMongoHealthProfileRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	txManager := mongo.NewMongoTxManager(dbClient)

	// --- Initialize Plan Generator ---
	planGenerator, err := generator.NewGeminiClient(
		cfg.Gemini.Endpoint,
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		&http.Client{Timeout: cfg.Gemini.Timeout},
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize plan generator")
	}

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo, goalRepo, profileRepo, txManager)
	statsService := service.NewStatsService(goalRepo, completionRepo)
	planService := service.NewPlanService(planRepo, routineRepo, scheduleRepo, txManager)
	scheduleService := service.NewScheduleService(scheduleRepo, completionRepo, userRepo, txManager)
	generationService := service.NewGenerationService(
		userRepo, goalRepo, profileRepo, planRepo, completionRepo,
		planGenerator, planService,
	)
	// The plan service needs the orchestrator to generate plans on demand;
	// the orchestrator persists through the plan service.
	planService.SetProducer(generationService)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		userService,
		statsService,
		planService,
		scheduleService,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // plan generation can take a while
		IdleTimeout:  120 * time.Second,
	}

	log.WithField("address", cfg.Server.Address).Info("server starting")

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exiting")
}
