package flowbench

import (
	"database/sql"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/flowbenchhq/flowbench/internal/ai"
	"github.com/flowbenchhq/flowbench/internal/auth"
	"github.com/flowbenchhq/flowbench/internal/config"
	"github.com/flowbenchhq/flowbench/internal/controllers"
	"github.com/flowbenchhq/flowbench/internal/core"
	"github.com/flowbenchhq/flowbench/internal/migrations"
	"github.com/flowbenchhq/flowbench/internal/repository"
	"github.com/flowbenchhq/flowbench/internal/storage"
	"github.com/flowbenchhq/flowbench/internal/web"
	"github.com/flowbenchhq/flowbench/internal/workflow"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lmittmann/tint"

	_ "github.com/go-sql-driver/mysql"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Start boots the dashboard and blocks until the HTTP server stops.
func Start(mux *http.ServeMux) error {

	databaseType := config.GetSystemSettingString(config.DATABASE_TYPE)
	if databaseType == "" || (databaseType != config.DATABASE_TYPE_POSTGRES && databaseType != config.DATABASE_TYPE_MYSQL && databaseType != config.DATABASE_TYPE_SQLLITE) {
		panic("FBENCH_DATABASE_TYPE must be set to one of the following values: POSTGRES, MYSQL, SQLLITE")
	}

	var db *sql.DB
	if databaseType == config.DATABASE_TYPE_POSTGRES {
		db = setupPostgresDatabase()
		defer db.Close()
	}
	if databaseType == config.DATABASE_TYPE_SQLLITE {
		db = setupSqlLiteDatabase()
		defer db.Close()
	}
	if databaseType == config.DATABASE_TYPE_MYSQL {
		db = setupMysqlDatabase()
		defer db.Close()
	}

	clock := &core.RealClock{}
	userRepo := repository.NewUserRepository(db, clock)
	workflowRepo := repository.NewWorkflowRepository(db, clock)
	stepLogRepo := repository.NewStepLogRepository(db, clock)
	leadRepo := repository.NewLeadRepository(db, clock)
	pageRepo := repository.NewPageRepository(db, clock)
	eventRepo := repository.NewWebhookEventRepository(db, clock)
	bundleRepo := repository.NewAppBundleRepository(db, clock)

	authService := auth.NewService(userRepo)
	aiClient := ai.NewClient()
	runner := workflow.NewRunner(workflowRepo, stepLogRepo, aiClient, clock)

	uploadsDir := config.GetSystemSettingString(config.UPLOADS_DIR)
	fileStore, err := storage.NewFileStore(uploadsDir)
	if err != nil {
		slog.Error("Failed to prepare uploads dir", "dir", uploadsDir, "error", err)
		return err
	}
	appsDir := config.GetSystemSettingString(config.APPS_DIR)
	if err := os.MkdirAll(appsDir, 0o755); err != nil {
		slog.Error("Failed to prepare apps dir", "dir", appsDir, "error", err)
		return err
	}

	if mux == nil {
		mux = http.NewServeMux()
	}
	usersController := controllers.NewUsersController(authService, userRepo, userRepo)
	usersController.RegisterRoutes(mux)
	workflowsController := controllers.NewWorkflowsController(workflowRepo, runner, userRepo)
	workflowsController.RegisterRoutes(mux)
	webhooksController := controllers.NewWebhooksController(eventRepo, userRepo)
	webhooksController.RegisterRoutes(mux)
	leadsController := controllers.NewLeadsController(leadRepo, userRepo)
	leadsController.RegisterRoutes(mux)
	pagesController := controllers.NewPagesController(pageRepo, userRepo)
	pagesController.RegisterRoutes(mux)
	toolsController := controllers.NewToolsController(aiClient, userRepo)
	toolsController.RegisterRoutes(mux)
	filesController := controllers.NewFilesController(fileStore, userRepo)
	filesController.RegisterRoutes(mux)
	appsController := controllers.NewAppsController(bundleRepo, appsDir, userRepo)
	appsController.RegisterRoutes(mux)

	webController := web.NewWebController(web.Deps{
		Auth:      authService,
		Users:     userRepo,
		Workflows: workflowRepo,
		Runner:    runner,
		Leads:     leadRepo,
		Pages:     pageRepo,
		Events:    eventRepo,
		Bundles:   bundleRepo,
		Files:     fileStore,
		AppsDir:   appsDir,
		AI:        aiClient,
	})
	webController.RegisterRoutes(mux)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := ":" + config.GetSystemSettingString(config.SERVER_WEB_PORT)
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		addr = v
	}
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("HTTP server failed", "error", err)
		return err
	}
	return nil
}

func setupPostgresDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("FBENCH_DATABASE_URL must be set when using the POSTGRES database type")
	}
	slog.Info("Using Postgres database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("postgres", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening Postgres database")
	dbPostgres, err := sql.Open("postgres", dbURL)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbPostgres
}

func setupSqlLiteDatabase() *sql.DB {
	fileName := config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME)
	if fileName == "" {
		panic("FBENCH_DATABASE_SQLLITE_FILE_NAME must be set")
	}
	dbURL := "sqlite3://" + fileName
	slog.Info("Using SQLite database", "file", fileName)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("sqllite3", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening SQLite database")
	dbSqlLite, err := sql.Open("sqlite3", fileName)
	if err != nil {
		log.Fatalf("Failed to open SQLite DB: %v", err)
	}
	if err := dbSqlLite.Ping(); err != nil {
		log.Fatalf("Failed to ping SQLite DB: %v", err)
	}
	return dbSqlLite
}

func setupMysqlDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("FBENCH_DATABASE_URL must be set when using the MYSQL database type")
	}
	if !strings.Contains(dbURL, "parseTime=true") {
		panic("FBENCH_DATABASE_URL must contain 'parseTime=true' for MySQL")
	}
	if !strings.HasPrefix(dbURL, "mysql://") {
		panic("FBENCH_DATABASE_URL must start with 'mysql://' for MySQL")
	}

	slog.Info("Using MySQL database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("mysql", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening MySQL database")
	dbMysql, err := sql.Open("mysql", strings.Replace(dbURL, "mysql://", "", 1))
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbMysql
}

func runMigrationsFromEmbed(migrationsPath string, dbURL string) error {
	sub, err := fs.Sub(migrations.FS, migrationsPath)
	if err != nil {
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func SetupLogger() {
	w := os.Stderr
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}
