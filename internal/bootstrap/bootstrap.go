package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/registrar/internal/app/controllers"
	appMigrations "github.com/yigit/registrar/internal/app/migrations"
	appRepos "github.com/yigit/registrar/internal/app/repositories"
	appRoutes "github.com/yigit/registrar/internal/app/routes"
	appServices "github.com/yigit/registrar/internal/app/services"
	appViews "github.com/yigit/registrar/internal/app/views"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	appMiddleware "github.com/yigit/registrar/internal/middleware"
	pkgAuth "github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/seed"
)

// DefaultConfigPath is read when no --config flag is given
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	CollegeService    appServices.CollegeService
	ProgramService    appServices.ProgramService
	StudentService    appServices.StudentService
	OverviewService   appServices.OverviewService
	UserService       appServices.UserService
	HomeController    *appControllers.HomeController
	CollegeController *appControllers.CollegeController
	ProgramController *appControllers.ProgramController
	StudentController *appControllers.StudentController
	Repos             *appRepos.Repositories
	SessionSigner     *pkgAuth.SessionSigner
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: logger.ParseFormat(cfg.Logging.Format),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenDatabase establishes the database connection and verifies it.
func OpenDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.NewDatabase(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, database *db.Database, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	ctx = logger.WithContext(ctx, lgr)
	if err := appMigrations.NewMigrator(database).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and, when enabled, seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Database, error) {
	database, err := OpenDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := Migrate(context.Background(), database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
			// Log the error but don't fail the startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.Database, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Dialect)

	deps.SessionSigner = pkgAuth.NewSessionSigner(pkgAuth.SessionConfig{
		SecretKey: cfg.Session.SecretKey,
		FlashTTL:  cfg.FlashTTLDuration(5 * time.Minute),
	})

	deps.CollegeService = appServices.NewCollegeService(database, deps.Repos.CollegeRepository)
	deps.ProgramService = appServices.NewProgramService(database, deps.Repos.ProgramRepository, deps.Repos.CollegeRepository)
	deps.StudentService = appServices.NewStudentService(database, deps.Repos.StudentRepository, deps.Repos.ProgramRepository)
	deps.OverviewService = appServices.NewOverviewService(database, deps.Repos)
	deps.UserService = appServices.NewUserService(database, deps.Repos.UserRepository)

	deps.HomeController = appControllers.NewHomeController(deps.OverviewService, database)
	deps.CollegeController = appControllers.NewCollegeController(deps.CollegeService)
	deps.ProgramController = appControllers.NewProgramController(deps.ProgramService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)

	return deps
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	appMiddleware.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.Flashes(deps.SessionSigner))

	tmpl, err := appViews.Load()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router,
		deps.HomeController,
		deps.CollegeController,
		deps.ProgramController,
		deps.StudentController,
	)

	return router, nil
}
