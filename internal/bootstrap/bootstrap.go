package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	appControllers "github.com/yigit/coursehub/internal/app/controllers"
	appMigrations "github.com/yigit/coursehub/internal/app/migrations"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	appRoutes "github.com/yigit/coursehub/internal/app/routes"
	appServices "github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/db"
	appMiddleware "github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/observability"
	"github.com/yigit/coursehub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store            db.Store
	Repos            *appRepos.Repositories
	CourseService    appServices.CourseService
	CourseController *appControllers.CourseController
	HealthController *appControllers.HealthController
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := SetupLogger(cfg)
	return cfg, lgr, nil
}

// SetupLogger configures the process-wide logger from cfg
func SetupLogger(cfg *config.Config) zerolog.Logger {
	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return lgr
}

// SetupTracing initializes OpenTelemetry when enabled in cfg
func SetupTracing(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (observability.ShutdownFunc, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Server.Mode,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, lgr)
}

// SetupStore opens the configured store, prepares its schema and builds the
// repositories bound to it. The caller owns the returned store and must close it.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (db.Store, *appRepos.Repositories, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Bool("transactional", cfg.Database.Transactional).Msg("Establishing store connection...")

	var (
		store db.Store
		repos *appRepos.Repositories
	)

	switch cfg.Database.Driver {
	case config.DriverMongo:
		database, err := db.NewMongoDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
			return nil, nil, err
		}
		store = database

		var mongoRepo *appRepos.MongoCourseRepository
		repos, mongoRepo = appRepos.NewMongoRepositories(database, cfg.Database.Collection, cfg.Database.Transactional, lgr)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			_ = database.Close(ctx)
			return nil, nil, err
		}

	case config.DriverPostgres:
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		store = database

		if err := runMigrations(ctx, database, cfg.Database.MigrationsDir, lgr); err != nil {
			_ = database.Close(ctx)
			return nil, nil, err
		}
		repos = appRepos.NewPostgresRepositories(database, cfg.Database.Transactional, lgr)

	case config.DriverMemory:
		store = db.NopStore{}
		repos = appRepos.NewMemoryRepositories(cfg.Database.Transactional, lgr)

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	lgr.Info().Msg("Store connection successfully established.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(ctx, repos.CourseRepository, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return store, repos, nil
}

func runMigrations(ctx context.Context, database *db.PostgresDB, migrationsDir string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(store db.Store, repos *appRepos.Repositories, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Store:  store,
		Repos:  repos,
		Logger: lgr,
	}

	deps.CourseService = appServices.NewCourseService(repos.UnitOfWork, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HealthController = appControllers.NewHealthController(store)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	router.Use(appMiddleware.RequestLogger(logger.WithComponent(lgr, "http")))
	router.Use(appMiddleware.CORS(cfg.CORS.AllowedOrigins))

	appRoutes.SetupRouter(router, deps.CourseController, deps.HealthController)

	return router
}
