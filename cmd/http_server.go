package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	"github.com/frahmantamala/expense-tracker/internal/database"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/importer"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/frahmantamala/expense-tracker/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Load the seed file when enabled, then serve the expense API`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = database.Close(deps.DB)
			os.Exit(1)
		}
	}

	if err := database.Close(deps.DB); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}
	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Logging.Level, config.Logging.Format)

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	bus := newEventBus(lg)

	if config.Import.Enabled {
		// A bad seed file must not keep the API down
		result, err := importer.NewLoader(db, bus, lg).LoadFile(context.Background(), config.Import.DataFile)
		if err != nil {
			lg.Warn("startup import failed", "path", config.Import.DataFile, "error", err)
		} else {
			lg.Info("startup import finished",
				"inserted", result.Inserted,
				"duplicates", result.Duplicates,
				"skipped", result.Skipped)
		}
	}

	if _, err := swagger.Load(context.Background()); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	sx, err := database.SQLX(db, config.Database.Driver)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(db), bus, lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(sx), lg)

	router := rest.NewRouter(config.Server, rest.Handlers{
		Expense:  expense.NewHandler(expenseService, lg),
		Category: category.NewHandler(transport.NewBaseHandler(lg), categoryService),
		Health:   rest.NewHealthHandler(sqlDB, config.Database.Driver),
	}, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}
