package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindtrack-backend/internal/config"
	"mindtrack-backend/internal/database"
	"mindtrack-backend/internal/handlers"
	"mindtrack-backend/internal/middleware"
	"mindtrack-backend/internal/repository"
	"mindtrack-backend/internal/router"
	"mindtrack-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting MindTrack Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Connect MongoDB ────
	db, closeMongo, err := database.NewMongoDatabase(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("✗ MongoDB connection failed: %v", err)
	}
	defer closeMongo()
	log.Println("✓ MongoDB connected")

	// ──── Step 3: Connect Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	answerRepo := repository.NewAnswerRepo(db)
	progressRepo := repository.NewProgressRepo(db)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth, emailService, cfg.SupportEmail)
	adminService := services.NewAdminService(adminRepo, userRepo, jwtAuth, emailService)
	progressService := services.NewProgressService(progressRepo, answerRepo)
	selector := services.NewSelector(questionRepo, progressRepo)
	recommender := services.NewRecommender(questionRepo, progressRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService)
	questionHandler := handlers.NewQuestionHandler(questionRepo, selector, progressService, recommender)

	// ──── Start HTTP Server ────
	r := router.New(jwtAuth, authHandler, adminHandler, questionHandler, cfg.FrontendURL, cfg.AuthRateLimit)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ MindTrack Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
