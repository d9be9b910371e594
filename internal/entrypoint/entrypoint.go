package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/demo"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/logging"
	"github.com/mrlokans/bookshelf/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("server exiting")
}

func Run(cfg *config.Config, version string) {
	logger := logging.New(cfg.Log)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting bookshelf", zap.String("version", version))

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", zap.Error(err))
	}

	// A failed first load leaves the collection empty with the error shown;
	// the server still starts so the user can see it and retry.
	if err := app.Collection.LoadWithTrigger(ctx, collection.TriggerStartup); err != nil {
		logger.Warn("initial load failed", zap.Error(err))
	} else {
		logger.Info("collection loaded", zap.Int("books", len(app.Collection.Snapshot())))
	}

	refresh := scheduler.NewRefreshScheduler(cfg.Refresh, cfg.Audit.RetentionDays,
		app.Collection, app.Audit, logger)
	if err := refresh.Start(ctx); err != nil {
		logger.Error("failed to start refresh scheduler", zap.Error(err))
	}

	routerCfg := http_controllers.RouterConfig{
		Collection:     app.Collection,
		Gateway:        app.Gateway,
		Database:       app.Database,
		AuditLog:       app.Audit,
		Refresh:        refresh,
		DemoMiddleware: demo.NewMiddleware(cfg.Demo.Enabled, cfg.Demo.ReadOnly),
		Logger:         logger.Named("http"),
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		refresh.Stop()
		cancelBackground()
		if err := app.Close(); err != nil {
			logger.Error("error closing database", zap.Error(err))
		}
	}

	Serve(router, cfg, logger, onShutdown)
}
