package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"curriculum/internal/config"
	"curriculum/internal/repository/postgres"
	"curriculum/internal/schema"
	"curriculum/internal/seed"
	"curriculum/internal/service/coursedoc"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop the courses table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed courses")
	clearData := flag.Bool("clear-data", false, "Delete all courses (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	logger := config.NewLogger(cfg, nil)

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}

	if *dropTables {
		log.Println("Dropping courses table...")
		if err := exec(ctx, pool, "DROP TABLE IF EXISTS %s CASCADE", repoConfig.Tables.Courses); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, repoConfig); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := exec(ctx, pool, "DELETE FROM %s", repoConfig.Tables.Courses); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared successfully")
		return
	}

	fieldSchema, err := schema.Load()
	if err != nil {
		log.Fatalf("Failed to load field schema: %v", err)
	}
	serializer := coursedoc.NewSerializer(fieldSchema, logger)
	courseService := coursedoc.NewCourseService(
		postgres.NewCourseRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		serializer,
		coursedoc.NewCalculator(fieldSchema),
		coursedoc.NewMarkdownExporter(serializer),
		logger,
	)

	n, err := seed.NewCourseSeeder(courseService, logger).Seed(ctx)
	if err != nil {
		log.Fatalf("Seeding stopped after %d courses: %v", n, err)
	}
	log.Printf("Seeding complete: %d courses", n)
}

// exec runs a statement against a prefixed table name
func exec(ctx context.Context, pool *pgxpool.Pool, format, table string) error {
	_, err := pool.Exec(ctx, fmt.Sprintf(format, table))
	return err
}
