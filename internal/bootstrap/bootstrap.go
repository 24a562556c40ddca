package bootstrap

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "unimarks/internal/app/controllers"
	appMigrations "unimarks/internal/app/migrations"
	appRepos "unimarks/internal/app/repositories"
	appRoutes "unimarks/internal/app/routes"
	"unimarks/internal/config"
	"unimarks/internal/db"
	"unimarks/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	SemesterController   *appControllers.SemesterController
	SubjectController    *appControllers.SubjectController
	AssignmentController *appControllers.AssignmentController
	ExamController       *appControllers.ExamController
	Logger               zerolog.Logger
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

// SetupDatabase opens the year's SQLite file and brings its schema up
// to date, then seeds the configured default semesters.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.SQLiteDB, error) {
	lgr.Info().Str("path", cfg.DatabasePath()).Msg("Opening database...")
	database, err := db.NewSQLiteDB(cfg.DatabasePath())
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to open database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Msg("Running schema migrations...")
	migrator := appMigrations.NewMigrator(database)
	if err := migrator.EnsureSchema(ctx); err != nil {
		lgr.Error().Err(err).Msg("Schema migration error")
		database.Close()
		return nil, err
	}
	if err := migrator.EnsureYearHasSemesters(ctx, cfg.Academic.Year, cfg.Academic.DefaultSemesters); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default semesters")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Schema migrations successfully applied.")

	return database, nil
}

// ImportLegacyData moves a pre-database JSON year file into the store
// when one sits next to the database. Import failures are logged, not
// fatal; the file may predate the current key format.
func ImportLegacyData(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) {
	path := cfg.LegacyYearFilePath()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repos.ImportYearFile(ctx, path); err != nil {
		lgr.Error().Err(err).Str("path", path).Msg("Failed to import legacy year file, proceeding anyway...")
	}
}

// BuildDependencies initializes application repositories and controllers.
func BuildDependencies(cfg *config.Config, database *db.SQLiteDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database, cfg.Academic.Year)

	deps.SemesterController = appControllers.NewSemesterController(deps.Repos)
	deps.SubjectController = appControllers.NewSubjectController(deps.Repos)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.Repos)
	deps.ExamController = appControllers.NewExamController(deps.Repos)

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

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.SemesterController,
		deps.SubjectController,
		deps.AssignmentController,
		deps.ExamController,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
