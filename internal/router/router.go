package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/okravets/openblog/backend/internal/cache"
	"github.com/okravets/openblog/backend/internal/handlers"
	"github.com/okravets/openblog/backend/internal/middleware"
	"github.com/okravets/openblog/backend/internal/repositories"
	"github.com/okravets/openblog/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, cfg *config.Config) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	postRepo := repositories.NewMongoPostRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)
	categoryRepo := repositories.NewMongoCategoryRepository(db)
	analyticsRepo := repositories.NewMongoAnalyticsRepository(db)

	resultCache := cache.New(cache.DefaultTTL)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public read routes ---
	api := e.Group("/api")

	postHandler := handlers.NewPostHandler(postRepo, categoryRepo, analyticsRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo, resultCache)
	analyticsHandler.RegisterAnalyticsRoutes(api)
	log.Println("Analytics routes configured.")

	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	categoryHandler.RegisterCategoryRoutes(api)

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	log.Println("Category and user routes configured.")

	// --- Mutation routes (JWT protected when REQUIRE_AUTH is set) ---
	mutations := e.Group("/api")
	if cfg.RequireAuth {
		mutations.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		log.Println("JWT authentication middleware applied to mutation routes.")
	}

	postHandler.RegisterPostMutationRoutes(mutations)

	ratingHandler := handlers.NewRatingHandler(postRepo)
	ratingHandler.RegisterRatingRoutes(mutations)

	commentHandler := handlers.NewCommentHandler(postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(mutations)
	commentHandler.RegisterModerationRoutes(mutations)
	log.Println("Mutation routes configured.")

	log.Println("All routes configured.")
}
