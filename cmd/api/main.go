package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hrsystem/internal/config"
	"hrsystem/internal/handlers"
	"hrsystem/internal/repositories"
	"hrsystem/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize document store
	documentStore := services.NewDocumentStore(
		cfg.Storage.UploadPath,
		cfg.Server.BaseURL,
		cfg.Storage.SigningKey,
	)
	if err := documentStore.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewTextExtractor(documentStore)
	log.Println("✅ Storage services initialized successfully")

	// Initialize search index
	searchIndex, err := services.NewQdrantIndex(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Search.MaxScrollWindow,
		cfg.Qdrant.Timeout,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize search index client: %v", err)
	}

	// Schema init failure is not fatal: search degrades to the database
	// fallback until the index becomes reachable.
	if err := searchIndex.EnsureIndex(context.Background()); err != nil {
		log.Printf("⚠️  Failed to initialize search index, continuing with fallback search only: %v", err)
	} else {
		log.Println("✅ Search index initialized successfully")
	}

	// Initialize indexer and repositories
	indexer := services.NewIndexer(searchIndex, extractor)
	candidateRepo := repositories.NewCandidateRepository(db, indexer)
	userRepo := repositories.NewUserRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	log.Println("✅ Repositories initialized successfully")

	searchService := services.NewSearchService(searchIndex, candidateRepo)

	// Initialize reindex worker
	worker := services.NewReindexWorker(
		candidateRepo,
		indexer,
		cfg.Worker.Concurrency,
		cfg.Worker.ReindexInterval,
	)
	worker.Start(context.Background())

	// Initialize handlers
	candidateHandler := handlers.NewCandidateHandler(
		candidateRepo,
		documentStore,
		searchService,
		worker,
		cfg.Storage.MaxFileSize,
		cfg.Storage.SignedURLTTL,
	)
	userHandler := handlers.NewUserHandler(userRepo)
	interviewHandler := handlers.NewInterviewHandler(
		interviewRepo,
		candidateRepo,
		userRepo,
		documentStore,
		cfg.Storage.MaxFileSize,
		cfg.Storage.SignedURLTTL,
	)
	fileHandler := handlers.NewFileHandler(documentStore)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HR System API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Candidates
	api.Get("/candidates", candidateHandler.HandleGetAll)
	api.Get("/candidates/search", candidateHandler.HandleSearch)
	api.Post("/candidates/reindex", candidateHandler.HandleReindex)
	api.Get("/candidates/:id", candidateHandler.HandleGetByID)
	api.Get("/candidates/:id/resume-url", candidateHandler.HandleGetResumeURL)
	api.Post("/candidates/:id/reindex", candidateHandler.HandleReindexCandidate)
	api.Post("/candidates", candidateHandler.HandleAdd)
	api.Put("/candidates/:id", candidateHandler.HandleUpdate)
	api.Delete("/candidates/:id", candidateHandler.HandleDelete)

	// Users
	api.Get("/users", userHandler.HandleGetAll)
	api.Get("/users/:id", userHandler.HandleGetByID)
	api.Post("/users", userHandler.HandleAdd)
	api.Put("/users/:id", userHandler.HandleUpdate)
	api.Delete("/users/:id", userHandler.HandleDelete)

	// Interviews
	api.Get("/interviews", interviewHandler.HandleGetAll)
	api.Get("/interviews/:id", interviewHandler.HandleGetByID)
	api.Post("/interviews", interviewHandler.HandleAdd)
	api.Put("/interviews/:id", interviewHandler.HandleUpdate)
	api.Delete("/interviews/:id", interviewHandler.HandleDelete)
	api.Post("/interviews/:id/recording", interviewHandler.HandleUploadRecording)
	api.Get("/interviews/:id/recording-url", interviewHandler.HandleGetRecordingURL)

	// Signed file downloads
	api.Get("/files/:name", fileHandler.HandleDownload)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HR System API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/candidates",
				"GET /api/v1/candidates/search",
				"POST /api/v1/candidates",
				"GET /api/v1/users",
				"GET /api/v1/interviews",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
