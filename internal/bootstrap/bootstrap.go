// Package bootstrap wires configuration, storage, services and routes
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/campuslink/campuslink/internal/app/controllers"
	appMigrations "github.com/campuslink/campuslink/internal/app/migrations"
	appRepos "github.com/campuslink/campuslink/internal/app/repositories"
	appRoutes "github.com/campuslink/campuslink/internal/app/routes"
	appServices "github.com/campuslink/campuslink/internal/app/services"
	"github.com/campuslink/campuslink/internal/config"
	"github.com/campuslink/campuslink/internal/db"
	appMiddleware "github.com/campuslink/campuslink/internal/middleware"
	pkgAuth "github.com/campuslink/campuslink/internal/pkg/auth"
	"github.com/campuslink/campuslink/internal/pkg/email"
	"github.com/campuslink/campuslink/internal/pkg/helpers"
	"github.com/campuslink/campuslink/internal/pkg/logger"
	"github.com/campuslink/campuslink/internal/pkg/otp"
	"github.com/campuslink/campuslink/internal/pkg/websocket"
	"github.com/campuslink/campuslink/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	CommunityService    appServices.CommunityService
	PostService         appServices.PostService
	GroupService        appServices.GroupService
	UserService         appServices.UserService
	NotificationService appServices.NotificationService

	AuthController      *appControllers.AuthController
	CommunityController *appControllers.CommunityController
	PostController      *appControllers.PostController
	GroupController     *appControllers.GroupController
	UserController      *appControllers.UserController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	OTPStore       otp.Store
	EmailService   email.EmailService
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is not fatal on startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// newOTPStore selects the OTP store implementation: Redis with native
// expiry when enabled, the in-process sweeping store otherwise.
func newOTPStore(cfg *config.Config, lgr zerolog.Logger) (otp.Store, error) {
	if cfg.Redis.Enabled {
		store, err := otp.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger.WithComponent("otp"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis OTP store")
		return store, nil
	}

	sweepInterval := helpers.ParseDuration(cfg.OTP.SweepInterval, 5*time.Minute)
	lgr.Info().Dur("sweepInterval", sweepInterval).Msg("Using in-memory OTP store")
	return otp.NewMemoryStore(sweepInterval, logger.WithComponent("otp")), nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.OTPStore, err = newOTPStore(cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, logger.WithComponent("email"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.Hub = websocket.NewHub(logger.WithComponent("websocket"))
	go deps.Hub.Run()

	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.Repos.GroupRepository, logger.WithComponent("websocket"))

	// Services
	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.OTPStore,
		deps.EmailService,
		deps.Repos.UserRepository,
		deps.JWTService,
		helpers.ParseDuration(cfg.OTP.Expiration, 5*time.Minute),
		cfg.OTP.MaxAttempts,
		lgr,
	)

	deps.CommunityService = appServices.NewCommunityService(deps.Repos.CommunityRepository, lgr)

	deps.PostService = appServices.NewPostService(
		deps.Repos.PostRepository,
		deps.Repos.CommunityRepository,
		deps.NotificationService,
		lgr,
	)

	deps.GroupService = appServices.NewGroupService(
		deps.Repos.GroupRepository,
		deps.Repos.MessageRepository,
		deps.Repos.UserRepository,
		deps.NotificationService,
		deps.Hub,
		lgr,
	)

	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.BookmarkRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CommunityController = appControllers.NewCommunityController(deps.CommunityService, lgr)
	deps.PostController = appControllers.NewPostController(deps.PostService, lgr)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.NotificationService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(logger.WithComponent("http")))
	router.Use(gin.Recovery())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		cfg.Server.Version,
		deps.AuthController,
		deps.CommunityController,
		deps.PostController,
		deps.GroupController,
		deps.UserController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
