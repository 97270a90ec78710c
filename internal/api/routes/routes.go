package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/devconnect/backend/internal/api/handlers"
	"github.com/devconnect/backend/internal/api/middleware"
)

type Deps struct {
	Users   *handlers.UserHandler
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Limiter gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// Public routes; account creation and login are rate limited
	api.POST("/users", d.Limiter, d.Users.Register)
	api.POST("/auth", d.Limiter, d.Auth.Login)
	api.GET("/profile", d.Profile.List)
	api.GET("/profile/user/:user_id", d.Profile.GetByUser)

	// Protected routes (JWT)
	auth := api.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.GET("/auth", d.Auth.Me)

	auth.GET("/profile/me", d.Profile.Me)
	auth.POST("/profile", d.Profile.Upsert)
	auth.DELETE("/profile", d.Profile.Delete)

	auth.POST("/profile/experience", d.Profile.AddExperience)
	auth.PUT("/profile/experience/:exp_id", d.Profile.ReplaceExperience)
	auth.DELETE("/profile/experience/:exp_id", d.Profile.RemoveExperience)
}
