package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/qpaper/internal/app/auth"
	appControllers "github.com/yigit/qpaper/internal/app/controllers"
	appMigrations "github.com/yigit/qpaper/internal/app/migrations"
	appRepos "github.com/yigit/qpaper/internal/app/repositories"
	appRoutes "github.com/yigit/qpaper/internal/app/routes"
	appServices "github.com/yigit/qpaper/internal/app/services"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/db"
	appMiddleware "github.com/yigit/qpaper/internal/middleware"
	pkgAuth "github.com/yigit/qpaper/internal/pkg/auth"
	"github.com/yigit/qpaper/internal/pkg/filestorage"
	"github.com/yigit/qpaper/internal/pkg/flash"
	"github.com/yigit/qpaper/internal/pkg/helpers"
	"github.com/yigit/qpaper/internal/pkg/logger"
	"github.com/yigit/qpaper/internal/pkg/validation"
	"github.com/yigit/qpaper/internal/seed"
	"github.com/yigit/qpaper/internal/views"
)

// DefaultConfigPath is read when QPAPER_CONFIG is not set
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	QuestionPaperService    appServices.QuestionPaperService
	AuthService             *appServices.AuthService
	VisitorService          *appServices.VisitorService
	HealthService           *appServices.HealthService
	QuestionPaperController *appControllers.QuestionPaperController
	AuthController          *appControllers.AuthController
	AdminController         *appControllers.AdminController
	HealthController        *appControllers.HealthController
	AuthMiddleware          *appMiddleware.AuthMiddleware
	Repos                   *appRepos.Repositories
	SessionService          *pkgAuth.SessionService
	AuthzService            *appAuth.AuthorizationService
	Logger                  zerolog.Logger
	FileStorage             filestorage.FileStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("QPAPER_CONFIG", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	ConfigureLogger(cfg)

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")

	if cfg.UsesDefaultSecret() {
		event := lgr.Warn()
		if strings.EqualFold(cfg.Server.Mode, "production") {
			event = lgr.Error()
		}
		event.Msg("SECRET_KEY is not set; sessions are signed with the built-in default secret")
	}

	return cfg, lgr, nil
}

// ConfigureLogger applies the logging section of cfg to the global logger
func ConfigureLogger(cfg *config.Config) {
	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// SetupDatabase establishes the database connection, runs migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, cfg, appRepos.NewUserRepository(database), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Database, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	deps.FileStorage = filestorage.NewBlobStorage(cfg.MaxUploadBytes())
	validator := validation.New()

	policy, err := appAuth.NewPolicy(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to select authorization policy: %w", err)
	}
	deps.AuthzService = appAuth.NewAuthorizationService(policy)

	deps.SessionService = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey:  cfg.Session.Secret,
		Expiration: helpers.ParseDuration(cfg.Session.Expiration, 24*time.Hour),
	})

	deps.QuestionPaperService = appServices.NewQuestionPaperService(
		deps.Repos.QuestionPaperRepository,
		deps.FileStorage,
		validator,
	)
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.SessionService,
		validator,
		appServices.AdminCredentials{
			Username:     cfg.Auth.AdminUsername,
			Password:     cfg.Auth.AdminPassword,
			PasswordHash: cfg.Auth.AdminPasswordHash,
		},
		cfg.Auth.PasswordMinLength,
		lgr,
	)
	deps.VisitorService = appServices.NewVisitorService(deps.Repos.VisitorStatRepository)
	deps.HealthService = appServices.NewHealthService(deps.Repos.HealthRepository, databaseName(cfg))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(
		deps.AuthService,
		deps.AuthzService,
		cfg.Session.CookieName,
		cfg.Session.Secure,
	)

	renderer := appControllers.NewRenderer(deps.AuthzService)
	deps.QuestionPaperController = appControllers.NewQuestionPaperController(
		deps.QuestionPaperService,
		deps.VisitorService,
		deps.AuthzService,
		renderer,
		deps.FileStorage.MaxSize(),
		cfg.Session.Secure,
	)
	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		deps.AuthMiddleware,
		renderer,
		cfg.Auth.AdminLoginPath,
		databaseName(cfg),
		lgr,
	)
	deps.AdminController = appControllers.NewAdminController(deps.VisitorService, renderer)
	deps.HealthController = appControllers.NewHealthController(deps.HealthService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production", "release":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), flash.Cookies(cfg.Session.Secure))
	router.MaxMultipartMemory = deps.FileStorage.MaxSize() + 1<<20

	tmpl, err := views.Load()
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to load templates")
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router,
		cfg,
		deps.QuestionPaperController,
		deps.AuthController,
		deps.AdminController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	lgr.Info().Str("scheme", cfg.Auth.Scheme).Msg("Routes registered")
	return router, nil
}

// databaseName is the name shown by the health and user listing endpoints
func databaseName(cfg *config.Config) string {
	if cfg.Database.Driver == config.DriverPostgres {
		return cfg.Database.DBName
	}
	return cfg.Database.Path
}
