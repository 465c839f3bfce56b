package routes

import (
	"corebank/internal/adapters/http/handlers"
	"corebank/internal/adapters/http/middleware"
	"corebank/internal/adapters/persistence/repositories"
	"corebank/internal/config"
	"corebank/internal/core/services"
	"corebank/internal/pkg/cryptox"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, codec *cryptox.Codec) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionRepo, codec, cfg)
	accountService := services.NewAccountService(accountRepo, transactionRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (rate limited, no session required)
	auth := apiV1.Group("/auth")
	auth.Post("/signup", middleware.AuthRateLimiter(), authHandler.Signup)
	auth.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)

	// Protected routes
	protected := apiV1.Group("", middleware.AuthMiddleware(authService))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", authHandler.Me)

	protected.Post("/accounts", accountHandler.CreateAccount)
	protected.Get("/accounts", accountHandler.ListAccounts)
	protected.Post("/accounts/:id/fund", accountHandler.Fund)
	protected.Get("/accounts/:id/transactions", accountHandler.ListTransactions)
}
