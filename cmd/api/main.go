package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"savora/internal/cache"
	"savora/internal/config"
	"savora/internal/database"
	"savora/internal/handlers"
	"savora/internal/logger"
	"savora/internal/middleware"
	"savora/internal/services"
	"savora/internal/storage"
	"savora/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "savora/internal/docs" // Import swagger docs
)

// @title           Savora API
// @version         1.0
// @description     Savora is a recipe management service with per-user tags, ingredients, recipes and image uploads.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Select image storage backend
	var store storage.Storage
	switch appConfig.StorageBackend {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), appConfig.S3Bucket, appConfig.S3Region)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		log.Infof("Using S3 storage backend (bucket %s)", appConfig.S3Bucket)
	default:
		store = storage.NewLocalStorage(appConfig.MediaRoot)
		log.Infof("Using local storage backend at %s", appConfig.MediaRoot)
	}

	// Recipe detail cache; disabled when no Redis address is configured
	cacheClient := cache.New(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	tagService := services.NewTagService(db)
	ingredientService := services.NewIngredientService(db)
	recipeService := services.NewRecipeService(db, store, cacheClient, appConfig.CacheTTL)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	tagHandler := handlers.NewTagHandler(tagService, auditService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, auditService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, auditService)
	adminHandler := handlers.NewAdminHandler(userService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded images (local backend only)
	if appConfig.StorageBackend != "s3" {
		router.Static("/media", appConfig.MediaRoot)
	}

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Tag routes
	tags := protected.Group("/tags")
	tags.POST("", tagHandler.CreateTag)
	tags.GET("", tagHandler.GetUserTags)
	tags.GET("/:id", tagHandler.GetTagByID)
	tags.PUT("/:id", tagHandler.UpdateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	// Ingredient routes
	ingredients := protected.Group("/ingredients")
	ingredients.POST("", ingredientHandler.CreateIngredient)
	ingredients.GET("", ingredientHandler.GetUserIngredients)
	ingredients.GET("/:id", ingredientHandler.GetIngredientByID)
	ingredients.PUT("/:id", ingredientHandler.UpdateIngredient)
	ingredients.DELETE("/:id", ingredientHandler.DeleteIngredient)

	// Recipe routes
	recipes := protected.Group("/recipes")
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("", recipeHandler.GetUserRecipes)
	recipes.GET("/:id", recipeHandler.GetRecipeByID)
	recipes.PATCH("/:id", recipeHandler.UpdateRecipe)
	recipes.PUT("/:id", recipeHandler.ReplaceRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
	recipes.POST("/:id/upload-image", recipeHandler.UploadImage)

	// Staff-only admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.StaffOnly())
	admin.GET("/users", adminHandler.ListUsers)

	log.Infof("Starting Savora backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
