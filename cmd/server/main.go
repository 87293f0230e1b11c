package main

import (
	"net/http"

	"lookbook/backend/internal/auth"
	"lookbook/backend/internal/config"
	"lookbook/backend/internal/database"
	"lookbook/backend/internal/handler"
	"lookbook/backend/internal/repository"
	"lookbook/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	// Swagger imports
	_ "lookbook/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Lookbook API
// @version         1.0
// @description     This is the API for the Lookbook social styling service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	logrus.Info("database connection established")

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	relationRepo := repository.NewRelationRepository(db)

	resolver := service.NewResolver(relationRepo, userRepo)
	relationSvc := service.NewRelationService(relationRepo, userRepo)
	feedSvc := service.NewFeedService(postRepo, resolver)

	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret)
	userHandler := handler.NewUserHandler(userRepo, relationRepo, resolver)
	relationHandler := handler.NewRelationHandler(relationSvc, resolver)
	postHandler := handler.NewPostHandler(postRepo, userRepo, feedSvc, resolver)
	feedHandler := handler.NewFeedHandler(feedSvc, userRepo)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.Middleware(cfg.JWTSecret))
		{
			userRoutes.GET("", userHandler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", userHandler.GetMe)
			userRoutes.GET("/me/relations", userHandler.GetRelations)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.GET("/:id/posts", postHandler.GetUserPosts)

			// Relationship routes
			userRoutes.GET("/:id/relation", relationHandler.GetRelation)
			userRoutes.POST("/:id/relations", relationHandler.SendRequest)
			userRoutes.POST("/:id/relations/accept", relationHandler.AcceptRequest)
			userRoutes.POST("/:id/relations/reject", relationHandler.RejectRequest)
			userRoutes.DELETE("/:id/relations", relationHandler.RemoveRelation)
		}

		// Feed route (protected)
		apiV1.GET("/feed", auth.Middleware(cfg.JWTSecret), feedHandler.GetFeed)

		// Post routes
		postRoutes := apiV1.Group("/posts")
		{
			// Single-post reads allow anonymous viewers (public posts only).
			postRoutes.GET("/:id", auth.OptionalMiddleware(cfg.JWTSecret), postHandler.GetPost)

			protected := postRoutes.Group("")
			protected.Use(auth.Middleware(cfg.JWTSecret))
			{
				protected.POST("", postHandler.CreatePost)
				protected.DELETE("/:id", postHandler.DeletePost)
			}
		}
	}

	logrus.WithField("addr", cfg.ListenAddr).Info("server is running")
	logrus.Info("swagger UI is available at /swagger/index.html")
	if err := router.Run(cfg.ListenAddr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
