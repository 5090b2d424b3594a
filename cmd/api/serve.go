// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/chat"
	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/console"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/health"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
	"github.com/carterperez-dev/templates/storefront/internal/ops"
	"github.com/carterperez-dev/templates/storefront/internal/product"
	"github.com/carterperez-dev/templates/storefront/internal/server"
	"github.com/carterperez-dev/templates/storefront/internal/session"
	"github.com/carterperez-dev/templates/storefront/internal/user"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(configPath)
	},
}

//nolint:funlen // bootstrap code is inherently verbose
func serve(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		logger.Warn("failed to initialize telemetry", "error", err)
		telemetry = nil
	} else if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"driver", cfg.Database.Driver,
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.EnsureSchema(ctx, db.DB); err != nil {
			_ = db.Close() //nolint:errcheck // startup failure
			return err
		}
		logger.Info("schema ensured")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close() //nolint:errcheck // startup failure
		return err
	}

	var revoker session.Revoker
	if redis != nil {
		revoker = session.NewRedisRevoker(redis.Client)
		logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)
	} else {
		logger.Info("redis not configured, console logout only clears cookies")
	}

	closeStores := func() {
		_ = redis.Close() //nolint:errcheck // startup failure
		_ = db.Close()    //nolint:errcheck // startup failure
	}

	sessions, err := openSessions(cfg, revoker, logger)
	if err != nil {
		closeStores()
		return err
	}

	var metrics *core.Metrics
	if cfg.Metrics.Enabled {
		metrics = core.NewMetrics()
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, userSvc, db, metrics, cfg.Auth)
	authHandler := auth.NewHandler(authSvc)

	productRepo := product.NewRepository(db.DB)
	productSvc := product.NewService(productRepo, db, metrics)
	productHandler := product.NewHandler(productSvc, cfg.Upload)

	chatRepo := chat.NewRepository(db.DB)
	chatSvc := chat.NewService(chatRepo, userSvc, db, metrics)
	chatHandler := chat.NewHandler(chatSvc)

	consoleHandler, err := console.NewHandler(console.Config{
		Auth:     authSvc,
		Sessions: sessions,
		Products: productSvc,
		Chats:    chatSvc,
		Upload:   cfg.Upload,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	opsCfg := ops.Config{
		Repo:    ops.NewRepository(db.DB),
		DBStats: db.Stats,
		DBPing:  db.Ping,
	}

	deps := []health.Dependency{{Name: "database", Checker: db}}
	if redis != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: redis})
		opsCfg.RedisStats = redis.Stats
		opsCfg.RedisPing = redis.Ping
	}
	opsHandler := ops.NewHandler(opsCfg)
	healthHandler := health.NewHandler(deps...)

	srv := server.New(server.Config{
		ServerConfig: cfg.Server,
		Drainer:      healthHandler,
		Logger:       logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(middleware.Tracing(telemetry.Tracer))
	}
	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	if metrics != nil {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	authHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router, authenticator)
	productHandler.RegisterRoutes(router, authenticator, adminOnly)
	chatHandler.RegisterRoutes(router, authenticator)
	consoleHandler.RegisterRoutes(router)
	opsHandler.RegisterRoutes(router, authenticator, adminOnly)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+cfg.Server.DrainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, cfg.Server.DrainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// openSessions loads the console signing keys. Missing keys are generated
// in development and fatal everywhere else.
func openSessions(
	cfg *config.Config,
	revoker session.Revoker,
	logger *slog.Logger,
) (*session.Manager, error) {
	if !cfg.Session.SessionKeysPresent() {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf(
				"session keys missing at %s (run the keygen command)",
				cfg.Session.PrivateKeyPath,
			)
		}
		if err := session.GenerateKeyPair(
			cfg.Session.PrivateKeyPath,
			cfg.Session.PublicKeyPath,
		); err != nil {
			return nil, err
		}
		logger.Warn("generated development session keys",
			"private", cfg.Session.PrivateKeyPath,
		)
	}

	return session.NewManager(cfg.Session, revoker)
}
