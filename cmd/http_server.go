package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	activityPostgres "github.com/henryantwi/activity-tracker/internal/activity/postgres"
	"github.com/henryantwi/activity-tracker/internal/auth"
	authPostgres "github.com/henryantwi/activity-tracker/internal/auth/postgres"
	"github.com/henryantwi/activity-tracker/internal/core/events"
	"github.com/henryantwi/activity-tracker/internal/handover"
	handoverPostgres "github.com/henryantwi/activity-tracker/internal/handover/postgres"
	"github.com/henryantwi/activity-tracker/internal/report"
	reportPostgres "github.com/henryantwi/activity-tracker/internal/report/postgres"
	"github.com/henryantwi/activity-tracker/internal/transport/rest"
	"github.com/henryantwi/activity-tracker/internal/user"
	userPostgres "github.com/henryantwi/activity-tracker/internal/user/postgres"
	"github.com/henryantwi/activity-tracker/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger

	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	ActivityHandler *activity.Handler
	HandoverHandler *handover.Handler
	ReportHandler   *report.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.Config.Server.AllowedOrigins,
		deps.AuthHandler,
		deps.UserHandler,
		deps.ActivityHandler,
		deps.HandoverHandler,
		deps.ReportHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

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
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	policy := auth.NewPolicy()
	eventBus := events.NewEventBus(lg)
	registerEventHandlers(eventBus, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)

	userRepo := userPostgres.NewRepository(gormDB)
	userService := user.NewService(userRepo, lg)
	userHandler := user.NewHandler(userService)

	activityRepo := activityPostgres.NewActivityRepository(gormDB)
	activityService := activity.NewService(activityRepo, policy, eventBus, lg)
	activityHandler := activity.NewHandler(activityService)

	handoverRepo := handoverPostgres.NewHandoverRepository(gormDB)
	handoverService := handover.NewService(handoverRepo, activityRepo, policy, eventBus, lg)
	handoverHandler := handover.NewHandler(handoverService)

	statsRepo := reportPostgres.NewStatsRepository(db)
	reportService := report.NewService(activityRepo, statsRepo, policy, lg)
	reportHandler := report.NewHandler(reportService)

	return &Dependencies{
		Config:          config,
		DB:              db,
		GormDB:          gormDB,
		Router:          chi.NewRouter(),
		EventBus:        eventBus,
		Logger:          lg,
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ActivityHandler: activityHandler,
		HandoverHandler: handoverHandler,
		ReportHandler:   reportHandler,
	}, nil
}

// registerEventHandlers attaches the in-process subscribers that record
// domain events in the structured log.
func registerEventHandlers(eventBus *events.EventBus, lg *slog.Logger) {
	eventBus.Subscribe(events.EventTypeActivityStatusChanged, func(ctx context.Context, event events.Event) error {
		lg.Info("activity status changed",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
	eventBus.Subscribe(events.EventTypeHandoverCreated, func(ctx context.Context, event events.Event) error {
		lg.Info("handover created",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
	eventBus.Subscribe(events.EventTypeHandoverAcknowledged, func(ctx context.Context, event events.Event) error {
		lg.Info("handover acknowledged",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
