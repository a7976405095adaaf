package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"chapterfund/internal/config"
	"chapterfund/internal/database"
	"chapterfund/internal/handlers"
	"chapterfund/internal/logger"
	"chapterfund/internal/middleware"
	"chapterfund/internal/services"
	"chapterfund/internal/validator"

	_ "chapterfund/internal/docs" // Import swagger docs
)

// @title           Chapterfund API
// @version         1.0
// @description     Chapterfund helps IEEE student chapter treasurers manage budgets, track expenses through the approval pipeline, and stay on top of funding deadlines.

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
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db)
	deadlineService := services.NewDeadlineService(db)
	categoryService := services.NewCategoryService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, expenseService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	deadlineHandler := handlers.NewDeadlineHandler(deadlineService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public auth routes, rate limited per client IP
	authLimiter, err := middleware.NewAuthRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return fmt.Errorf("failed to create auth rate limiter: %w", err)
	}
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(authLimiter))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and logout
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/utilization", budgetHandler.GetBudgetUtilization)
	budgets.GET("/:id/expenses", budgetHandler.GetBudgetExpenses)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
	expenses.POST("/:id/status", expenseHandler.TransitionStatus)
	expenses.GET("/:id/timeline", expenseHandler.GetTimeline)

	// Deadline routes
	deadlines := protected.Group("/deadlines")
	deadlines.POST("", deadlineHandler.CreateDeadline)
	deadlines.GET("", deadlineHandler.GetDeadlines)
	deadlines.GET("/:id", deadlineHandler.GetDeadline)
	deadlines.PUT("/:id", deadlineHandler.UpdateDeadline)
	deadlines.DELETE("/:id", deadlineHandler.DeleteDeadline)
	deadlines.POST("/:id/complete", deadlineHandler.CompleteDeadline)

	// Category routes
	protected.GET("/categories", categoryHandler.GetCategories)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/dashboard", reportHandler.GetDashboard)
	reports.GET("/category-breakdown", reportHandler.GetCategoryBreakdown)
	reports.GET("/trend", reportHandler.GetSpendingTrend)
	reports.GET("/utilization", reportHandler.GetUtilization)
	reports.GET("/export/csv", reportHandler.ExportCSV)
	reports.GET("/export/pdf", reportHandler.ExportPDF)

	log.Infof("Starting Chapterfund backend server on port %s", cfg.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	return router.Run(":" + cfg.Port)
}
