package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/devconnect/backend/config"
	"github.com/devconnect/backend/internal/api/handlers"
	"github.com/devconnect/backend/internal/api/middleware"
	"github.com/devconnect/backend/internal/api/routes"
	"github.com/devconnect/backend/internal/logger"
	mongorepo "github.com/devconnect/backend/internal/repositories/mongo"
	"github.com/devconnect/backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = config.CloseMongo(ctx)
	}()
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	db := config.MongoDatabase()
	userRepo := mongorepo.NewUserRepo(db)
	profileRepo := mongorepo.NewProfileRepo(db)

	authSvc := services.NewAuthService(secret, 24*time.Hour)
	userSvc := services.NewUserService(userRepo, authSvc)
	profileSvc := services.NewProfileService(profileRepo, userRepo)

	r := gin.New()
	r.Use(middleware.RequestLogger(l), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Users:   handlers.NewUserHandler(userSvc),
		Auth:    handlers.NewAuthHandler(userSvc),
		Profile: handlers.NewProfileHandler(profileSvc),
		Limiter: middleware.RateLimit(config.RedisClient),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
