package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"dochive/internal/auth"
	"dochive/internal/config"
	"dochive/internal/handler"
	"dochive/internal/middleware"
	"dochive/internal/repository/postgres"
	"dochive/internal/sanitize"
	"dochive/internal/service"
	"dochive/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// Logs go to stdout, and additionally to a rotating file when LOG_DIR
	// is set.
	var logOut io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"search_backend", cfg.SearchBackend,
	)

	// JWT verifier against the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Search: postgres.NewTextSearch(cfg.SearchBackend, cfg.SearchLanguage, tables),
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	categoryRepo := postgres.NewCategoryRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	attachmentRepo := postgres.NewAttachmentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Attachment binary storage
	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Create services
	sanitizer := sanitize.NewHTML()
	docService := service.NewDocumentService(docRepo, categoryRepo, tagRepo, attachmentRepo, txManager, store, sanitizer, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, docRepo, store, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, logger)
	tagHandler := handler.NewTagHandler(tagRepo, logger)
	healthHandler := handler.NewHealthHandler(pool)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.SearchDocuments)
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/{slug}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{slug}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{slug}", docHandler.DeleteDocument)
	mux.HandleFunc("GET /api/documents/{slug}/hierarchy", docHandler.GetHierarchy)
	mux.HandleFunc("POST /api/documents/{slug}/views", docHandler.IncrementViews)

	// Attachment routes
	mux.HandleFunc("GET /api/documents/{slug}/attachments", attachmentHandler.ListAttachments)
	mux.HandleFunc("POST /api/documents/{slug}/attachments", attachmentHandler.CreateAttachment)
	mux.HandleFunc("GET /api/attachments/{id}/download", attachmentHandler.DownloadAttachment)
	mux.HandleFunc("DELETE /api/attachments/{id}", attachmentHandler.DeleteAttachment)

	// Category routes
	mux.HandleFunc("GET /api/categories", categoryHandler.ListCategories)
	mux.HandleFunc("POST /api/categories", categoryHandler.CreateCategory)
	mux.HandleFunc("GET /api/categories/{slug}", categoryHandler.GetCategory)
	mux.HandleFunc("PATCH /api/categories/{slug}", categoryHandler.UpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{slug}", categoryHandler.DeleteCategory)

	// Tag routes
	mux.HandleFunc("GET /api/tags", tagHandler.ListTags)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // attachment downloads can be slow
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
