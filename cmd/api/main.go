package main

import (
	"fmt"
	"net/http"
	"os"

	"feastly/internal/config"
	"feastly/internal/database"
	"feastly/internal/handlers"
	"feastly/internal/logger"
	"feastly/internal/middleware"
	"feastly/internal/services"
	"feastly/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "feastly/internal/docs" // Import swagger docs
)

// @title           Feastly API
// @version         1.0
// @description     Feastly is a food delivery companion that lets users plan meals, track food spending, and save toward budget goals.
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

	// Register custom binding validators
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
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	goalService := services.NewGoalService(db)
	transactionService := services.NewTransactionService(db, goalService)
	summaryService := services.NewSummaryService(db)
	mealPlanService := services.NewMealPlanService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/auth/profile", authHandler.GetProfile)

	// Budget goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.POST("/:id/recalculate", goalHandler.RecalculateGoal)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget summary
	protected.GET("/summary", summaryHandler.GetSummary)

	// Meal plan routes
	mealPlans := protected.Group("/meal-plans")
	mealPlans.POST("", mealPlanHandler.CreateMealPlan)
	mealPlans.POST("/recurring", mealPlanHandler.CreateRecurringMealPlans)
	mealPlans.GET("", mealPlanHandler.GetMealPlans)
	mealPlans.GET("/:id", mealPlanHandler.GetMealPlan)
	mealPlans.PUT("/:id", mealPlanHandler.UpdateMealPlan)
	mealPlans.PUT("/:id/order", mealPlanHandler.MarkOrdered)
	mealPlans.DELETE("/:id", mealPlanHandler.DeleteMealPlan)

	// Week view
	protected.GET("/week-plans", mealPlanHandler.GetWeekMealPlans)

	log.Infof("Starting Feastly backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
