package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"neshama/ai"
	"neshama/config"
	"neshama/engagement"
	"neshama/middleware"
	"neshama/routes"
	"neshama/utils"
	"neshama/worker"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Sentry before anything that can error
	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			log.Fatalf("Failed to initialize Sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// AI insight provider: Gemini when configured, generic copy otherwise
	var insights engagement.InsightProvider
	if config.AppConfig.Gemini.APIKey != "" {
		provider, err := ai.NewGeminiProvider(ctx, config.AppConfig.Gemini, config.DB)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini provider: %v", err)
		}
		insights = provider
	} else {
		log.Warn("GEMINI_API_KEY not set, engagement emails will use generic copy")
		insights = ai.NewDisabledProvider()
	}

	// Assemble the engagement engine
	repo := engagement.NewGormUserRepository(config.DB)
	feedback := engagement.NewGormFeedbackService(config.DB)
	builder := engagement.NewSnapshotBuilder(repo, feedback, insights)
	detector := engagement.NewGormActivityDetector(config.DB)
	mailer := utils.NewMailer(config.AppConfig.SMTP)
	transport := engagement.NewSMTPTransport(mailer, config.AppConfig.BaseURL, config.AppConfig.UnsubscribeSecret)
	store := engagement.NewGormCampaignStore(config.DB)
	dict := engagement.NewStaticDictionaryProvider()
	orchestrator := engagement.NewOrchestrator(repo, builder, detector, insights,
		transport, store, dict, config.AppConfig.RunConcurrency)

	// Scheduled runs
	engagementWorker := worker.NewEngagementWorker(orchestrator,
		config.AppConfig.Timezone, config.AppConfig.DailyRunAt, config.AppConfig.EveningRunAt)
	if err := engagementWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start engagement worker: %v", err)
	}
	defer engagementWorker.Stop()

	// Bounce monitor
	if config.AppConfig.IMAP.Enabled {
		bounceWorker := worker.NewBounceWorker(config.DB, config.AppConfig.IMAP)
		go bounceWorker.Start(ctx)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "neshama-engagement",
	})
	app.Use(middleware.CORS())

	routes.SetupRoutes(app, config.DB, orchestrator, builder, dict)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		cancel()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Infof("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
