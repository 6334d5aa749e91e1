package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/auth"
	"github.com/noah-isme/idcard-api/internal/config"
	"github.com/noah-isme/idcard-api/internal/database"
	"github.com/noah-isme/idcard-api/internal/events"
	"github.com/noah-isme/idcard-api/internal/handler"
	"github.com/noah-isme/idcard-api/internal/middleware"
	"github.com/noah-isme/idcard-api/internal/repository"
	"github.com/noah-isme/idcard-api/internal/router"
	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/session"
	cloud "github.com/noah-isme/idcard-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Warn().Err(err).Msg("print events disabled")
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL, cfg.AppName)

	userRepo := repository.NewUserRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	printRepo := repository.NewPrintRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	cart := session.NewCartStore(redisClient, cfg.SessionTTL)
	dashboardCache := service.NewDashboardCache(redisClient, cfg.DashboardCacheTTL, logger)
	publisher := events.NewPublisher(natsConn, cfg.NATSSubjectPrefix, logger)

	activityService := service.NewActivityService(activityRepo, logger)
	mediaService := service.NewMediaService(uploader, cfg.UploadMaxMB, logger)
	authService := service.NewAuthService(userRepo, schoolRepo, tokens, validate, activityService, logger)
	schoolAdminService := service.NewSchoolAdminService(schoolRepo, studentRepo, classRepo, logger)
	studentService := service.NewStudentService(schoolRepo, studentRepo, classRepo, mediaService, validate, activityService, logger)
	settingsService := service.NewSettingsService(userRepo, schoolRepo, mediaService, validate, activityService, logger)
	superAdminService := service.NewSuperAdminService(schoolRepo, studentRepo, printRepo, dashboardCache, activityService, logger)
	printBatchService := service.NewPrintBatchService(schoolRepo, classRepo, printRepo, cart, logger)
	printCartService := service.NewPrintCartService(studentRepo, cart, publisher, dashboardCache, activityService, logger)
	seedService := service.NewSeedService(classRepo, userRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	bootstrapCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	created, err := seedService.EnsureSuperAdmin(bootstrapCtx, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	cancel()
	if err != nil {
		log.Fatalf("failed to ensure super admin: %v", err)
	}
	if created {
		logger.Info().Str("email", cfg.SuperAdminEmail).Msg("super admin account created")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.RequestBodyLimit(),
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigins,
		Session:      session.Config{TTL: cfg.SessionTTL, Secure: cfg.CookieSecure},
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler: handler.NewAuthHandler(authService, handler.AuthHandlerConfig{
			SecureCookie: cfg.CookieSecure,
			LoginLimiter: middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute),
		}, logger),
		SchoolAdminHandler: handler.NewSchoolAdminHandler(schoolAdminService, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, logger),
		SettingsHandler:    handler.NewSettingsHandler(settingsService, logger),
		SuperAdminHandler:  handler.NewSuperAdminHandler(superAdminService, logger),
		PrintHandler:       handler.NewPrintHandler(printBatchService, printCartService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		SeedHandler:        handler.NewSeedHandler(seedService, logger),
		Authenticator:      authService,
		HealthChecks: map[string]handler.DependencyCheck{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		Logger: logger,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
