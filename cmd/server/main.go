package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"curriculum/internal/auth"
	"curriculum/internal/config"
	"curriculum/internal/domain/repositories"
	"curriculum/internal/handler"
	"curriculum/internal/middleware"
	"curriculum/internal/repository/memory"
	"curriculum/internal/repository/postgres"
	"curriculum/internal/richtext"
	"curriculum/internal/schema"
	"curriculum/internal/service/coursedoc"
)

const devUserID = "00000000-0000-0000-0000-000000000001"

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Optional log file next to stdout
	var logFile *os.File
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer f.Close()
		logFile = f
	}

	logger := config.NewLogger(cfg, logFile)
	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Field schema drives the serializer, section insertion and completion
	fieldSchema, err := schema.Load()
	if err != nil {
		log.Fatalf("Failed to load field schema: %v", err)
	}

	// Document store: PostgreSQL when configured, memory otherwise
	var (
		courseRepo repositories.CourseRepository
		txManager  repositories.TransactionManager
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		if err := postgres.EnsureSchema(ctx, repoConfig); err != nil {
			log.Fatalf("Failed to prepare database: %v", err)
		}
		courseRepo = postgres.NewCourseRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool, logger)

		logger.Info("database connected", "courses_table", repoConfig.Tables.Courses)
	} else {
		if !cfg.IsDev() {
			log.Fatal("DATABASE_URL is required outside dev")
		}
		courseRepo = memory.NewCourseRepository()
		txManager = memory.NewTransactionManager()
		logger.Warn("DATABASE_URL not set, courses are kept in memory")
	}

	// Services
	serializer := coursedoc.NewSerializer(fieldSchema, logger)
	calculator := coursedoc.NewCalculator(fieldSchema)
	exporter := coursedoc.NewMarkdownExporter(serializer)
	inserter := coursedoc.NewSectionInserter(serializer, logger)
	courseService := coursedoc.NewCourseService(courseRepo, txManager, serializer, calculator, exporter, logger)
	sessions := coursedoc.NewSessionManager(
		courseService,
		serializer,
		inserter,
		calculator,
		richtext.NewMarkupCodec(),
		cfg.SessionLimit,
		logger,
	)

	// Handlers
	courseHandler := handler.NewCourseHandler(courseService, logger)
	sessionHandler := handler.NewSessionHandler(sessions, logger)
	mux := handler.NewRouter(courseHandler, sessionHandler)

	logger.Info("services initialized")

	// Authentication
	var authMiddleware func(http.Handler) http.Handler
	if cfg.AuthJWKSURL != "" {
		verifier, err := auth.NewJWTVerifier(ctx, cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		authMiddleware = middleware.AuthMiddleware(verifier, logger)
	} else {
		if !cfg.IsDev() {
			log.Fatal("AUTH_JWKS_URL is required outside dev")
		}
		logger.Warn("DEV MODE: AUTH_JWKS_URL not set, all requests run as the dev user", "user_id", devUserID)
		authMiddleware = middleware.DevAuthMiddleware(devUserID)
	}

	// Build middleware chain
	// Order: CORS → Recovery → Logging → Auth → Routes
	var h http.Handler = mux
	h = authMiddleware(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
