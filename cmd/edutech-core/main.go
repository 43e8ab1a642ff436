package main

// @title           EduTech Core API
// @version         1.0
// @description     Learning content API. Upload course documents, attach them to lessons and convert them into new lessons with generated summaries.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/edutech/edutech-core/docs"
	"github.com/edutech/edutech-core/internal/adapters/driven/auth"
	"github.com/edutech/edutech-core/internal/adapters/driven/filestore"
	"github.com/edutech/edutech-core/internal/adapters/driven/postgres"
	postgresqueue "github.com/edutech/edutech-core/internal/adapters/driven/queue/postgres"
	redisqueue "github.com/edutech/edutech-core/internal/adapters/driven/queue/redis"
	redisadapter "github.com/edutech/edutech-core/internal/adapters/driven/redis"
	"github.com/edutech/edutech-core/internal/adapters/driving/http"
	"github.com/edutech/edutech-core/internal/config"
	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/services"
	"github.com/edutech/edutech-core/internal/parser"
	"github.com/edutech/edutech-core/internal/worker"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// A command line argument overrides RUN_MODE
	if len(os.Args) > 1 {
		cfg.RunMode = os.Args[1]
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}

	log.Printf("edutech-core %s starting in %s mode", version, cfg.RunMode)
	if cfg.UsesDevSecret() {
		log.Println("Warning: JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== File storage =====
	files, closeFiles, err := openFileStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open file store: %v", err)
	}
	defer closeFiles()

	// ===== PostgreSQL Stores =====
	userStore := postgres.NewUserStore(db)
	documentStore := postgres.NewDocumentStore(db)
	lessonStore := postgres.NewLessonStore(db)
	categoryStore := postgres.NewCategoryStore(db)

	// ===== Session store, task queue and lock (Redis if available, otherwise PostgreSQL) =====
	var (
		sessionStore    driven.SessionStore
		taskQueue       driven.TaskQueue
		distributedLock driven.DistributedLock
		redisPinger     http.Pinger
	)
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		distributedLock = redisadapter.NewLock(redisClient)
		q, err := redisqueue.NewQueue(ctx, redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		taskQueue = q
		redisPinger = distributedLock
		log.Println("Using Redis sessions, locks and task queue")
	} else {
		sessionStore = postgres.NewSessionStore(db)
		distributedLock = postgres.NewAdvisoryLock(db)
		taskQueue = postgresqueue.NewQueue(db.DB)
		log.Println("Using PostgreSQL sessions, advisory locks and task queue")
	}
	defer taskQueue.Close()

	// ===== Parser =====
	docParser, err := parser.New(files, parser.Config{
		Encodings:        cfg.Parser.Encodings,
		MaxSentences:     cfg.Parser.MaxSentences,
		MaxSummaryLength: cfg.Parser.MaxSummaryLength,
		Logger:           slog.Default(),
	})
	if err != nil {
		log.Fatalf("Failed to create parser: %v", err)
	}

	// ===== Services =====
	authAdapter := auth.NewAdapterWithCost(cfg.Auth.JWTSecret, cfg.Auth.BcryptCost)
	authService := services.NewAuthService(services.AuthServiceConfig{
		Users:    userStore,
		Sessions: sessionStore,
		Adapter:  authAdapter,
		TokenTTL: cfg.Auth.TokenTTL,
		Logger:   slog.Default(),
	})
	userService := services.NewUserService(userStore, authAdapter)
	lessonService := services.NewLessonService(lessonStore, categoryStore)
	categoryService := services.NewCategoryService(categoryStore, slog.Default())
	taskService := services.NewTaskService(taskQueue, slog.Default())
	documentService := services.NewDocumentService(services.DocumentServiceConfig{
		Documents: documentStore,
		Lessons:   lessonStore,
		Files:     files,
		Parser:    docParser,
		Logger:    slog.Default(),
	})
	conversionService := services.NewConversionService(services.ConversionServiceConfig{
		Documents:  documentStore,
		Lessons:    lessonStore,
		Categories: categoryStore,
		Parser:     docParser,
		Tx:         db,
		Lock:       distributedLock,
		TaskQueue:  taskQueue,
		LockTTL:    cfg.Worker.LockTTL,
		Logger:     slog.Default(),
	})

	// ===== Worker =====
	var w *worker.Worker
	if cfg.RunsWorker() {
		w = worker.NewWorker(worker.WorkerConfig{
			TaskQueue:      taskQueue,
			Converter:      conversionService,
			Logger:         slog.Default(),
			Concurrency:    cfg.Worker.Concurrency,
			DequeueTimeout: cfg.Worker.DequeueTimeout,
			PurgeInterval:  cfg.Worker.PurgeInterval,
			TaskRetention:  cfg.Worker.TaskRetention,
		})
		if err := w.Start(ctx); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
		log.Printf("Worker started with %d processors", cfg.Worker.Concurrency)
	}

	// ===== HTTP API =====
	if cfg.RunsAPI() {
		serverCfg := http.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			Version:        version,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			CORSOrigins:    cfg.Server.CORSOrigins,
			Logger:         slog.Default(),
		}
		if w != nil {
			serverCfg.Worker = w
		}
		server := http.NewServer(serverCfg, http.Services{
			Auth:       authService,
			Users:      userService,
			Documents:  documentService,
			Conversion: conversionService,
			Lessons:    lessonService,
			Categories: categoryService,
			Tasks:      taskService,
		}, taskQueue, db, redisPinger)

		log.Printf("API server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(ctx); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	} else {
		<-ctx.Done()
	}

	log.Println("Shutdown signal received, stopping...")
	if w != nil {
		w.Stop()
		log.Println("Worker stopped")
	}
}

// openFileStore builds the configured blob backend
func openFileStore(ctx context.Context, cfg config.StorageConfig) (driven.FileStore, func(), error) {
	switch cfg.Backend {
	case config.BlobGCS:
		store, err := filestore.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using GCS file store (bucket=%s)", cfg.GCSBucket)
		return store, func() { _ = store.Close() }, nil
	default:
		store, err := filestore.NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using local file store (%s)", cfg.UploadDir)
		return store, func() { _ = store.Close() }, nil
	}
}
