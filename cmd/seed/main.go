package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"dochive/internal/config"
	"dochive/internal/domain"
	"dochive/internal/domain/models"
	"dochive/internal/domain/services"
	"dochive/internal/repository/postgres"
	"dochive/internal/sanitize"
	"dochive/internal/seed"
	"dochive/internal/service"
	"dochive/internal/storage"
	"dochive/internal/utils"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	seedUser := flag.String("seed-user", "00000000-0000-0000-0000-000000000001", "Author ID for seeded documents")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Create repositories and services for data seeding
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

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	docService := service.NewDocumentService(docRepo, categoryRepo, tagRepo, attachmentRepo, txManager, store, sanitize.NewHTML(), logger)

	// Default categories
	log.Println("Creating default categories...")
	categories, err := seed.DefaultCategories()
	if err != nil {
		log.Fatalf("Failed to load default categories: %v", err)
	}
	categoryIDs := map[string]string{}
	for _, c := range categories {
		category := &models.Category{
			Name:        c.Name,
			Slug:        utils.Slugify(c.Name),
			Description: c.Description,
		}
		err := categoryRepo.Create(ctx, category)
		switch {
		case err == nil:
			log.Printf("  Created category: %s", c.Name)
		case errors.Is(err, domain.ErrConflict):
			existing, getErr := categoryRepo.GetBySlug(ctx, category.Slug)
			if getErr != nil {
				log.Fatalf("Failed to resolve existing category '%s': %v", c.Name, getErr)
			}
			category = existing
			log.Printf("  Category exists: %s", c.Name)
		default:
			log.Fatalf("Failed to create category '%s': %v", c.Name, err)
		}
		categoryIDs[c.Name] = category.ID
	}

	// Sample documents
	log.Println("Seeding sample documents...")
	viewer := models.Viewer{Authenticated: true, UserID: *seedUser, Staff: true}
	for i, req := range sampleDocuments(categoryIDs) {
		// Re-running the seed must not duplicate documents, so the slug is
		// pinned instead of derived.
		req.Slug = utils.Slugify(req.Title)
		if _, err := docRepo.GetBySlug(ctx, req.Slug); err == nil {
			log.Printf("  Document exists, skipping: %s", req.Title)
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			log.Fatalf("Failed to check document '%s': %v", req.Title, err)
		}

		req.Viewer = viewer
		doc, err := docService.Create(ctx, req)
		if err != nil {
			log.Fatalf("Failed to create document '%s': %v", req.Title, err)
		}
		log.Printf("  Created document %d: %s (slug: %s)", i+1, doc.Title, doc.Slug)
	}

	log.Println("Seeding complete!")
}

// runSchema creates tables and indexes if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\""); err != nil {
		return err
	}

	createCategories := `
		CREATE TABLE IF NOT EXISTS ` + tables.Categories + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createCategories); err != nil {
		return err
	}

	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL DEFAULT '',
			category_id UUID REFERENCES ` + tables.Categories + `(id) ON DELETE SET NULL,
			author_id UUID NOT NULL,
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			views BIGINT NOT NULL DEFAULT 0,
			parent_id UUID REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_index BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	createTags := `
		CREATE TABLE IF NOT EXISTS ` + tables.Tags + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL
		)
	`
	if _, err := pool.Exec(ctx, createTags); err != nil {
		return err
	}

	createDocumentTags := `
		CREATE TABLE IF NOT EXISTS ` + tables.DocumentTags + ` (
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			tag_id UUID NOT NULL REFERENCES ` + tables.Tags + `(id) ON DELETE CASCADE,
			PRIMARY KEY (document_id, tag_id)
		)
	`
	if _, err := pool.Exec(ctx, createDocumentTags); err != nil {
		return err
	}

	createAttachments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Attachments + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			file_key TEXT NOT NULL,
			name TEXT NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createAttachments); err != nil {
		return err
	}

	// Indexes. The GIN indexes back the full-text search strategy; the
	// substring strategy scans, which is fine at wiki scale.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `tags_name_lower ON ` + tables.Tags + ` ((lower(name)))`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_category ON ` + tables.Documents + `(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_author ON ` + tables.Documents + `(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_parent ON ` + tables.Documents + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_created ON ` + tables.Documents + `(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `attachments_document ON ` + tables.Attachments + `(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_title_fts ON ` + tables.Documents + ` USING GIN (to_tsvector('english', title))`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_content_fts ON ` + tables.Documents + ` USING GIN (to_tsvector('english', content))`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Attachments,
		tables.DocumentTags,
		tables.Tags,
		tables.Documents,
		tables.Categories,
	}

	for _, table := range tableNames {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  Dropped %s", table)
	}

	return nil
}

func sampleDocuments(categoryIDs map[string]string) []*services.CreateDocumentRequest {
	gettingStarted := categoryIDs["Getting Started"]
	troubleshooting := categoryIDs["Troubleshooting"]

	return []*services.CreateDocumentRequest{
		{
			Title:      "Welcome",
			Content:    "<h1>Welcome</h1><p>This wiki holds the team's documentation. Start with the guides in Getting Started.</p>",
			CategoryID: &gettingStarted,
			IsIndex:    true,
			Tags:       []string{"welcome", "intro"},
		},
		{
			Title:      "Installation Guide",
			Content:    "<h1>Installation</h1><p>Clone the repository, copy <code>.env.example</code> to <code>.env</code>, and run the seed binary to set up the schema.</p>",
			CategoryID: &gettingStarted,
			Order:      1,
			Tags:       []string{"setup"},
		},
		{
			Title:      "Common Errors",
			Content:    "<h1>Common Errors</h1><p>A 503 from the health endpoint means the database is unreachable. Check <code>DATABASE_URL</code> first.</p>",
			CategoryID: &troubleshooting,
			Tags:       []string{"errors", "faq"},
		},
	}
}
