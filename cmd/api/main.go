package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/config"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/api"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/database"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/router"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/server"
	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var redisClient *redis.Client
	if redisClient, err = database.NewRedisClient(cfg); err != nil {
		// The cache only saves backend calls; the service works without it.
		log.Printf("Redis unavailable, analysis results will not be cached: %v", err)
		redisClient = nil
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		log.Fatal("GEMINI_API_KEY must be set")
	}
	extractor, err := service.NewGeminiExtractor(ctx, geminiKey)
	if err != nil {
		log.Fatalf("Failed to create label extractor: %v", err)
	}

	composer, err := service.NewChatComposer()
	if err != nil {
		log.Fatalf("Failed to create recipe composer: %v", err)
	}

	var images service.ImageStore
	if s3Cfg, err := config.NewS3Config(ctx); err != nil {
		log.Printf("S3 unavailable, source images will not be persisted: %v", err)
	} else {
		if err := s3Cfg.SetupBucketPolicy(ctx); err != nil {
			log.Printf("Failed to apply bucket policy, stored image URLs may not be publicly readable: %v", err)
		}
		images = service.NewS3ImageStore(s3Cfg)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	analysisService := service.NewAnalysisService(extractor, composer, images, recipeService, redisClient)

	r := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService),
		api.NewAnalyzeHandler(analysisService, cfg.MaxUploadBytes),
		authService,
	)

	srv := server.New(cfg, r)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
