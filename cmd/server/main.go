package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/nikhilm23/moodlens/configs"
	"github.com/nikhilm23/moodlens/internal/analysis/emotion"
	"github.com/nikhilm23/moodlens/internal/analysis/preprocess"
	"github.com/nikhilm23/moodlens/internal/analysis/slang"
	"github.com/nikhilm23/moodlens/internal/api/handlers"
	"github.com/nikhilm23/moodlens/internal/api/middleware"
	job "github.com/nikhilm23/moodlens/internal/jobs"
	"github.com/nikhilm23/moodlens/internal/queue"
	"github.com/nikhilm23/moodlens/internal/ratelimit"
	"github.com/nikhilm23/moodlens/internal/repository"
	"github.com/nikhilm23/moodlens/internal/service"
	"github.com/nikhilm23/moodlens/pkg/tokenvault"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	vault, err := tokenvault.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("Invalid encryption key: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	oauthStateRepo := repository.NewOAuthStateRepository(db)
	rateLimitRepo := repository.NewRateLimitRepository(db)
	ingestionRunRepo := repository.NewIngestionRunRepository(db)

	limiter := ratelimit.NewLimiter(rateLimitRepo, map[string]int{
		ratelimit.CategoryTimeline: cfg.RateLimits.Timeline,
		ratelimit.CategoryReplies:  cfg.RateLimits.Replies,
		ratelimit.CategoryLookup:   cfg.RateLimits.Lookup,
	}, cfg.RateLimits.Window)

	preprocessor := preprocess.New(preprocess.Config{
		MinTokens:     cfg.Language.MinTokens,
		MinConfidence: cfg.Language.MinConfidence,
	})
	slangDetector := slang.NewDetector()
	emotionEngine := emotion.NewEngine(
		emotion.NewClient(cfg.Emotion.APIURL),
		cfg.Emotion.MaxChars,
		cfg.Emotion.SerializeCalls,
	)

	authService := service.NewAuthService(cfg, userRepo)
	userService := service.NewUserService(userRepo)
	archiveService := service.NewArchiveService(cfg)
	twitterService := service.NewTwitterService(cfg, vault, limiter, socialAccountRepo)
	platformService := service.NewPlatformService(cfg, vault, socialAccountRepo, oauthStateRepo, twitterService)
	ingestionService := service.NewIngestionService(cfg, socialAccountRepo, postRepo, commentRepo,
		ingestionRunRepo, twitterService, preprocessor, slangDetector, emotionEngine, archiveService)
	postService := service.NewPostService(socialAccountRepo, postRepo, commentRepo, slangDetector)

	authMiddleware := middleware.NewAuthMiddleware(cfg)

	auth := handlers.NewAuthHandler(cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	platform := handlers.NewPlatformHandler(platformService)
	api.Get("/connect/twitter", platform.ConnectTwitter)
	api.Get("/connect/twitter/callback", platform.TwitterCallback)
	api.Get("/accounts", platform.ListAccounts)
	api.Delete("/accounts/:account_id", platform.DisconnectAccount)

	ingest := handlers.NewIngestionHandler(ingestionService, socialAccountRepo)
	api.Post("/ingest/:account_id", ingest.TriggerIngest)
	api.Get("/ingest/runs/:run_id", ingest.GetRun)
	api.Get("/accounts/:account_id/runs", ingest.ListRuns)

	post := handlers.NewPostHandler(postService)
	api.Get("/accounts/:account_id/posts", post.ListPosts)
	api.Get("/posts/:post_id", post.GetPost)
	api.Get("/accounts/:account_id/stats", post.GetAccountStats)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(socialAccountRepo, twitterService)
	ingestScheduleJob := job.NewIngestScheduleJob(socialAccountRepo, oauthStateRepo, client)

	// queue
	queueW := queue.NewQueue(ingestionService)

	c := cron.New()
	c.AddFunc(cfg.TokenRefreshCron, refreshTokenJob.RefreshTokens)
	c.AddFunc(cfg.IngestCron, ingestScheduleJob.EnqueueAll)
	c.AddFunc("@every 01h00m00s", ingestScheduleJob.CleanupStates)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeIngestAccount, queueW.HandleIngestAccountTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
