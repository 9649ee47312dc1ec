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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/staffsync/staffsync-backend/internal"
	"github.com/staffsync/staffsync-backend/internal/analytics"
	analyticsPostgres "github.com/staffsync/staffsync-backend/internal/analytics/postgres"
	"github.com/staffsync/staffsync-backend/internal/announcement"
	announcementPostgres "github.com/staffsync/staffsync-backend/internal/announcement/postgres"
	"github.com/staffsync/staffsync-backend/internal/attendance"
	attendancePostgres "github.com/staffsync/staffsync-backend/internal/attendance/postgres"
	"github.com/staffsync/staffsync-backend/internal/auth"
	authPostgres "github.com/staffsync/staffsync-backend/internal/auth/postgres"
	authRedis "github.com/staffsync/staffsync-backend/internal/auth/redis"
	"github.com/staffsync/staffsync-backend/internal/core/events"
	"github.com/staffsync/staffsync-backend/internal/dashboard"
	dashboardPostgres "github.com/staffsync/staffsync-backend/internal/dashboard/postgres"
	"github.com/staffsync/staffsync-backend/internal/document"
	documentPostgres "github.com/staffsync/staffsync-backend/internal/document/postgres"
	"github.com/staffsync/staffsync-backend/internal/employee"
	employeePostgres "github.com/staffsync/staffsync-backend/internal/employee/postgres"
	"github.com/staffsync/staffsync-backend/internal/leave"
	leavePostgres "github.com/staffsync/staffsync-backend/internal/leave/postgres"
	"github.com/staffsync/staffsync-backend/internal/notification"
	notificationPostgres "github.com/staffsync/staffsync-backend/internal/notification/postgres"
	"github.com/staffsync/staffsync-backend/internal/platform/metrics"
	platformRedis "github.com/staffsync/staffsync-backend/internal/platform/redis"
	"github.com/staffsync/staffsync-backend/internal/storage"
	"github.com/staffsync/staffsync-backend/internal/task"
	taskPostgres "github.com/staffsync/staffsync-backend/internal/task/postgres"
	"github.com/staffsync/staffsync-backend/internal/transport/rest"
	"github.com/staffsync/staffsync-backend/internal/transport/swagger"
	"github.com/staffsync/staffsync-backend/internal/user"
	userPostgres "github.com/staffsync/staffsync-backend/internal/user/postgres"
	"github.com/staffsync/staffsync-backend/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

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
	Gorm     *gorm.DB
	Redis    *platformRedis.Client
	EventBus *events.EventBus
	Metrics  *metrics.Metrics
	Storage  storage.Storage
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("Failed to set up routes", "error", err)
		deps.close()
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.Env)

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
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

// close drains in-flight event handlers before releasing connections.
func (d *Dependencies) close() {
	d.EventBus.Wait()
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	log := deps.Logger

	if _, err := swagger.Load(context.Background(), cfg.Server.OpenAPIPath); err != nil {
		return err
	}

	policy, err := attendance.NewPolicy(cfg.Attendance)
	if err != nil {
		return err
	}

	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	if deps.Redis != nil {
		revocations = authRedis.NewRevocationStore(deps.Redis.Client)
	}
	if deps.Metrics != nil {
		revocations = auth.NewObservedRevocationStore(revocations, deps.Metrics.ObserveRevocationCheck)
	}

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, revocations, deps.EventBus, cfg.Security.BCryptCost, log)

	attendanceRepo := attendancePostgres.NewRepository(deps.Gorm)
	taskRepo := taskPostgres.NewRepository(deps.Gorm)
	employeeRepo := employeePostgres.NewRepository(deps.Gorm)
	announcementService := announcement.NewService(announcementPostgres.NewRepository(deps.Gorm), log)

	dashboardService := dashboard.NewService(dashboard.Sources{
		Repo:          dashboardPostgres.NewRepository(deps.Gorm),
		Activity:      dashboardPostgres.NewActivityRepository(deps.DB),
		Attendance:    attendanceRepo,
		Tasks:         taskRepo,
		Employees:     employeeRepo,
		Announcements: announcementService,
	}, policy, log)

	checks := map[string]rest.Check{"postgres": deps.DB.PingContext}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis.Health
	}

	handlers := rest.Handlers{
		Health:       rest.NewHealthHandler(checks),
		Auth:         auth.NewHandler(authService, log),
		RBAC:         auth.NewRBACAuthorization(log),
		User:         user.NewHandler(user.NewService(userPostgres.NewUserRepository(deps.Gorm), log), log),
		Employee:     employee.NewHandler(employee.NewService(employeeRepo, deps.EventBus, cfg.Security.BCryptCost, log), log),
		Attendance:   attendance.NewHandler(attendance.NewService(attendanceRepo, policy, deps.EventBus, log), log),
		Task:         task.NewHandler(task.NewService(taskRepo, policy.Location, log), log),
		Leave:        leave.NewHandler(leave.NewService(leavePostgres.NewRepository(deps.Gorm), deps.EventBus, log), log),
		Document:     document.NewHandler(document.NewService(documentPostgres.NewRepository(deps.Gorm), deps.Storage, cfg.Storage, log), cfg.Storage, log),
		Announcement: announcement.NewHandler(announcementService, log),
		Notification: notification.NewHandler(notification.NewService(notificationPostgres.NewRepository(deps.Gorm), log), log),
		Analytics:    analytics.NewHandler(analytics.NewService(attendanceRepo, analyticsPostgres.NewRepository(deps.Gorm), policy, log), log),
		Dashboard:    dashboard.NewHandler(dashboardService, log),
	}

	opts := rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPIPath:    cfg.Server.OpenAPIPath,
	}
	if deps.Metrics != nil {
		opts.Observer = deps.Metrics
		opts.MetricsHandler = deps.Metrics.Handler()
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, handlers, opts, log)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Env, config.Observability.Logging.Level)
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db, config.Env)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	redisClient, err := platformRedis.New(ctx, config.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	if redisClient == nil {
		log.Warn("redis url not configured; token revocations are kept in memory")
	}

	store, err := storage.NewLocalStorage(config.Storage.BasePath, config.Storage.MaxFileSize)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	bus := events.NewEventBus(log)
	events.RegisterAuditLog(bus, log)

	var m *metrics.Metrics
	if config.Observability.Metrics.Enabled {
		m = metrics.New()
		m.Subscribe(bus)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Redis:    redisClient,
		EventBus: bus,
		Metrics:  m,
		Storage:  store,
		Router:   chi.NewRouter(),
		Logger:   log,
	}, nil
}

// initDB opens the shared pgx connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
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

// initGorm layers gorm over the pool initDB opened.
func initGorm(db *sqlx.DB, env string) (*gorm.DB, error) {
	level := gormlogger.Warn
	if env != "production" {
		level = gormlogger.Info
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}
