package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/config"
	"github.com/scholarsknowledge/api/database"
	"github.com/scholarsknowledge/api/handlers"
	auth_handlers "github.com/scholarsknowledge/api/handlers/auth"
	contact_handlers "github.com/scholarsknowledge/api/handlers/contact"
	message_handlers "github.com/scholarsknowledge/api/handlers/message"
	scholarship_handlers "github.com/scholarsknowledge/api/handlers/scholarship"
	user_handlers "github.com/scholarsknowledge/api/handlers/user"
	"github.com/scholarsknowledge/api/services"
	"github.com/scholarsknowledge/api/utils/auth"
	"github.com/scholarsknowledge/api/utils/cache"
	"github.com/scholarsknowledge/api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to read environment configuration")
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "scholarsknowledge-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Expiry: 24 * time.Hour,
		Issuer: jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db := store.GetDB()

	// Redis backs the forgot-password throttle. The API stays usable
	// without it; issuance is just unthrottled.
	var forgotThrottle *middleware.ForgotPasswordThrottle
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Reset-request throttling disabled.", err)
	} else {
		forgotThrottle = middleware.NewForgotPasswordThrottle(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	tokenService := services.NewTokenService(db, getEnv.APP_BASE_URL)
	emailService := services.NewEmailService()
	userService := services.NewUserService(db)
	contactService := services.NewContactService(db)
	messageService := services.NewMessageService(db)
	scholarshipService := services.NewScholarshipService(db)

	authHandler := auth_handlers.NewAuthHandler(tokenService, emailService)
	adminHandler := auth_handlers.NewAdminHandler(jwtManager, getEnv.ADMIN_EMAIL, getEnv.ADMIN_PASSWORD_HASH)
	userHandler := user_handlers.NewUserHandler(userService, jwtManager)
	contactHandler := contact_handlers.NewContactHandler(contactService)
	messageHandler := message_handlers.NewMessageHandler(messageService)
	scholarshipHandler := scholarship_handlers.NewScholarshipHandler(scholarshipService)

	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:5174"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error { return handlers.HandleCheckHealth(c, store) })

	api := app.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	if forgotThrottle != nil {
		authGroup.Post("/forgot", forgotThrottle.Check(), authHandler.ForgotPassword)
	} else {
		authGroup.Post("/forgot", authHandler.ForgotPassword)
	}
	authGroup.Post("/reset", authHandler.ResetPassword)
	authGroup.Post("/admin/login", adminHandler.Login)

	// Profile routes. Upsert is the entry point that issues the identity
	// token; everything touching per-user rows requires one.
	users := api.Group("/users")
	users.Post("/upsert", userHandler.Upsert)
	users.Post("/ping", authMiddleware.Required(), userHandler.Ping)
	users.Get("/", userHandler.ListLecturers)
	users.Get("/:uid", userHandler.GetUser)

	// Contact messages (student -> lecturer, protected)
	contact := api.Group("/contact", authMiddleware.Required())
	contact.Post("/", contactHandler.Send)
	contact.Get("/", contactHandler.Inbox)
	contact.Get("/sent", contactHandler.Sent)
	contact.Patch("/:id/read", contactHandler.MarkRead)
	contact.Delete("/:id", contactHandler.Delete)

	// Threaded messaging (protected)
	messages := api.Group("/messages", authMiddleware.Required())
	messages.Post("/start", messageHandler.Start)
	messages.Post("/reply", messageHandler.Reply)
	messages.Get("/threads", messageHandler.ListThreads)
	messages.Get("/thread/:id", messageHandler.GetThread)

	// Scholarship directory. Reads are public; an optional bearer token
	// unlocks the moderator view. Moderation itself is admin only.
	scholarships := api.Group("/scholarships")
	scholarships.Get("/", authMiddleware.Optional(), scholarshipHandler.List)
	scholarships.Get("/:id", authMiddleware.Optional(), scholarshipHandler.Get)
	scholarships.Post("/", scholarshipHandler.Submit)
	scholarships.Patch("/:id/status", authMiddleware.RequireAdmin(), scholarshipHandler.SetStatus)
	scholarships.Put("/:id", authMiddleware.RequireAdmin(), scholarshipHandler.Update)
	scholarships.Delete("/:id", authMiddleware.RequireAdmin(), scholarshipHandler.Delete)
}
