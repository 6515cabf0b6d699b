package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"visa-center.backend/internal/config"
	"visa-center.backend/internal/infrastructure/repositories"
	"visa-center.backend/internal/interfaces/http/handlers"
	"visa-center.backend/internal/interfaces/http/middleware"
	"visa-center.backend/internal/usecases"
	"visa-center.backend/pkg/jwt"
	"visa-center.backend/pkg/logger"
	"visa-center.backend/pkg/mailer"
	"visa-center.backend/pkg/redis"
	"visa-center.backend/pkg/storage"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newUploader = func(ctx context.Context, opts storage.Options) (storage.Uploader, error) {
		return storage.NewS3Uploader(ctx, opts)
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	countryRepo := repositories.NewCountryRepository(db)
	visaTypeRepo := repositories.NewVisaTypeRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	consultationRepo := repositories.NewConsultationRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	// Initialize shared stores
	otpStore := redis.NewOTPStore(cfg.OTP.CodeTTL, cfg.OTP.PayloadTTL)
	cache := redis.NewCache(cfg.Cache.TTL)
	sender := mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	uploader, err := newUploader(context.Background(), storage.Options{
		Bucket:        cfg.Storage.Bucket,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
		LocalFallback: cfg.Storage.LocalFallback,
		LocalDir:      cfg.Storage.LocalDir,
		LocalBaseURL:  cfg.Storage.LocalBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, otpStore, sender, jwtService, cfg.SMTP.From)
	profileUsecase := usecases.NewProfileUsecase(userRepo, uploader)
	catalogUsecase := usecases.NewCatalogUsecase(countryRepo, visaTypeRepo, cache)
	applicationUsecase := usecases.NewApplicationUsecase(applicationRepo, countryRepo, visaTypeRepo, cache)
	adminUsecase := usecases.NewAdminUsecase(userRepo, applicationRepo)
	consultationUsecase := usecases.NewConsultationUsecase(consultationRepo)
	settingsUsecase := usecases.NewSettingsUsecase(settingsRepo, cache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	profileHandler := handlers.NewProfileHandler(profileUsecase)
	catalogHandler := handlers.NewCatalogHandler(catalogUsecase)
	applicationHandler := handlers.NewApplicationHandler(applicationUsecase, uploader)
	adminHandler := handlers.NewAdminHandler(adminUsecase)
	consultationHandler := handlers.NewConsultationHandler(consultationUsecase)
	settingsHandler := handlers.NewSettingsHandler(settingsUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		profileHandler:      profileHandler,
		catalogHandler:      catalogHandler,
		applicationHandler:  applicationHandler,
		adminHandler:        adminHandler,
		consultationHandler: consultationHandler,
		settingsHandler:     settingsHandler,
		authMiddleware:      authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		if client := redis.GetClient(); client != nil {
			_ = client.Close()
		}
		_ = sqlDB.Close()
		os.Exit(0)
	}()

	// Start server
	log.Printf("🚀 Visa Center Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
