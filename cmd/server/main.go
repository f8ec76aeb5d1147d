package main

import (
	"net/http"
	"os"

	"chirp/backend/internal/auth"
	"chirp/backend/internal/config"
	"chirp/backend/internal/database"
	"chirp/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	// Swagger imports
	_ "chirp/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// @title           Chirp API
// @version         1.0
// @description     This is the API for the Chirp social network.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", handler.Signup)
			authRoutes.POST("/login", handler.Login)
			authRoutes.POST("/logout", handler.Logout)
			authRoutes.GET("/me", auth.AuthMiddleware(), handler.GetMe)
		}

		// User routes (protected)
		userRoutes := api.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/profile/:username", handler.GetProfile)
			userRoutes.GET("/suggested", handler.GetSuggestedUsers)
			userRoutes.GET("/followPage", handler.GetFollowPage)
			userRoutes.GET("/followFollowing/:username/:kind", handler.GetFollowFollowing)
			userRoutes.POST("/follow/:id", handler.ToggleFollow)
			userRoutes.POST("/update", handler.UpdateProfile)
			userRoutes.GET("/search", handler.SearchUsers)
		}

		// Notification routes (protected)
		notificationRoutes := api.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware())
		{
			notificationRoutes.GET("", handler.GetNotifications)
			notificationRoutes.DELETE("", handler.DeleteNotifications)
			notificationRoutes.DELETE("/:id", handler.DeleteNotification)
		}
	}

	addr := ":" + config.AppConfig.Port
	log.Info().Str("addr", addr).Msg("server is running")
	log.Info().Msg("Swagger UI is available at http://localhost:8080/swagger/index.html")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
