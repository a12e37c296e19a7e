package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/swagger"

	"github.com/sergedenimes/denim-atelier-be/internal/core/ai"
	"github.com/sergedenimes/denim-atelier-be/internal/core/prompt"
	"github.com/sergedenimes/denim-atelier-be/internal/core/storage"
	"github.com/sergedenimes/denim-atelier-be/internal/core/sweeper"
	conciergehandlers "github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/handlers"
	conciergerepos "github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/repositories"
	conciergeservices "github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/services"
	designhandlers "github.com/sergedenimes/denim-atelier-be/internal/modules/design/handlers"
	designrepos "github.com/sergedenimes/denim-atelier-be/internal/modules/design/repositories"
	designservices "github.com/sergedenimes/denim-atelier-be/internal/modules/design/services"
	"github.com/sergedenimes/denim-atelier-be/internal/shared/config"
	"github.com/sergedenimes/denim-atelier-be/internal/shared/database"
	"github.com/sergedenimes/denim-atelier-be/internal/shared/utils"
)

const maxBodyBytes = 10 * 1024 * 1024

// @title Denim Atelier API
// @version 1.0
// @description API for AI-assisted denim customization: garment detection, design generation, pricing, and the customer/admin concierge chat.
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	utils.InitLogger()

	// Load config
	cfg := config.LoadConfig()
	log.Printf("🚀 Starting denim-atelier api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	sessionRepo := designrepos.NewSessionRepo(db.GORM)
	generationRepo := designrepos.NewGenerationRepo(db.GORM)
	userRepo := conciergerepos.NewUserRepo(db.GORM)
	conversationRepo := conciergerepos.NewConversationRepo(db.GORM)
	messageRepo := conciergerepos.NewMessageRepo(db.GORM)

	// Init storage (Cloudinary)
	cloudinaryProvider, err := storage.NewCloudinaryProvider(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		log.Fatalf("Failed to initialize storage provider: %v", err)
	}
	storageService := storage.NewService(cloudinaryProvider)
	log.Printf("📦 Using storage provider: %s", storageService.GetProviderName())

	// Init AI provider
	aiProvider := ai.NewOpenAIProvider(cfg.OpenAIKey, cfg.DetectModel, cfg.ImageModel)
	log.Printf("🤖 Using AI provider: %s (detect=%s, image=%s)",
		aiProvider.GetProviderName(), cfg.DetectModel, cfg.ImageModel)

	// Init services
	sessionService := designservices.NewSessionService(
		sessionRepo, generationRepo, aiProvider, storageService, prompt.NewBuilder())
	conciergeService := conciergeservices.NewConciergeService(userRepo, conversationRepo, messageRepo)

	// Init handlers
	sessionHandler := designhandlers.NewSessionHandler(sessionService, cfg.DetectTimeout, cfg.GenerateTimeout)
	catalogHandler := designhandlers.NewCatalogHandler()
	userHandler := conciergehandlers.NewUserHandler(conciergeService)
	conversationHandler := conciergehandlers.NewConversationHandler(conciergeService)
	messageHandler := conciergehandlers.NewMessageHandler(conciergeService)
	uploadHandler := conciergehandlers.NewUploadHandler(storageService)

	// Init stale-session sweeper
	sessionSweeper := sweeper.NewSweeper(sessionRepo)
	if err := sessionSweeper.Start(); err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}
	defer sessionSweeper.Stop()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Denim Atelier API",
		BodyLimit: maxBodyBytes,
	})

	// Middleware
	app.Use(cors.New())
	app.Use(fiberlogger.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Design session routes
	app.Post("/sessions", sessionHandler.CreateSession)
	app.Get("/sessions/:id", sessionHandler.GetSession)
	app.Post("/sessions/:id/detect", sessionHandler.Detect)
	app.Put("/sessions/:id/style", sessionHandler.SelectStyle)
	app.Put("/sessions/:id/custom", sessionHandler.SubmitCustom)
	app.Post("/sessions/:id/generate", sessionHandler.Generate)
	app.Post("/sessions/:id/regenerate", sessionHandler.Regenerate)
	app.Post("/sessions/:id/lock", sessionHandler.Lock)
	app.Get("/sessions/:id/generations", sessionHandler.ListGenerations)

	// Catalog routes
	app.Get("/catalog/categories", catalogHandler.ListCategories)
	app.Get("/catalog/pricing", catalogHandler.PricingTable)
	app.Get("/catalog/:category/styles", catalogHandler.ListStyles)

	// User routes
	app.Post("/users", userHandler.CreateUser)

	// Conversation routes
	app.Get("/conversations", conversationHandler.ListConversations)
	app.Post("/conversations", conversationHandler.CreateConversation)
	app.Patch("/conversations/:id", conversationHandler.DecideOrder)

	// Message routes
	app.Get("/messages", messageHandler.ListMessages)
	app.Post("/messages", messageHandler.PostMessage)

	// Attachment uploads
	app.Post("/uploads/attachment", uploadHandler.UploadAttachment)

	// Start server
	log.Printf("✅ denim-atelier api running at :%s", cfg.Port)
	log.Printf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
