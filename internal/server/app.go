// Package server wires the photoalbum server together: the store supervisor,
// repositories, services, the REST surface and the gRPC health service.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/config"
	"github.com/dmitrijs2005/photoalbum/internal/server/metrics"
	"github.com/dmitrijs2005/photoalbum/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photoalbum/internal/server/rest"
	"github.com/dmitrijs2005/photoalbum/internal/server/services"
	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"

	gs "github.com/dmitrijs2005/photoalbum/internal/server/grpc"
)

// shutdownTimeout bounds how long in-flight HTTP requests may take once the
// store has been closed.
const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	store  *supervisor.Supervisor
	health *gs.HealthServer
	http   *rest.Server
}

// NewApp builds the application. Only configuration problems fail here;
// the store may still be unreachable. Extra supervisor options are applied
// after the defaults.
func NewApp(c *config.Config, logger logging.Logger, extra ...supervisor.Option) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	httpServer, err := rest.NewServer(c, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		config: c,
		logger: logger,
		repos:  repomanager.NewPostgresRepositoryManager(),
		http:   httpServer,
	}

	opts := []supervisor.Option{
		supervisor.WithLogger(logger),
		supervisor.WithOnConnect(app.repos.RunMigrations),
		supervisor.WithObserver(metrics.ObserveStoreState),
	}
	if c.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(c.GRPCHealthAddr, logger)
		opts = append(opts, supervisor.WithObserver(app.health.ObserveStoreState))
	}
	opts = append(opts, extra...)

	app.store = supervisor.New(supervisor.Config{
		DSN:                 c.DatabaseDSN,
		RetryInterval:       c.ReconnectInterval,
		HealthCheckInterval: c.HealthCheckInterval,
	}, opts...)

	return app, nil
}

func (app *App) routes() (*services.Reconciler, *rest.Services) {
	reconciler := services.NewReconciler(app.store, app.repos, app.logger)
	return reconciler, &rest.Services{
		Users:      services.NewUserService(app.store, app.repos, app.config),
		Albums:     services.NewAlbumService(app.store, app.repos),
		Photos:     services.NewPhotoService(app.store, app.repos, app.logger),
		Reconciler: reconciler,
		Media:      services.NewMediaService(app.store, app.repos, app.config),
		Store:      app.store,
	}
}

// Run serves until SIGINT or SIGTERM. On the signal the store handle is
// closed first and the listeners stopped afterwards. A nil result means a
// clean exit.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.health.Run(ctx); err != nil {
				errCh <- fmt.Errorf("grpc health server: %w", err)
			}
		}()
	}

	app.store.Start(ctx)
	defer app.store.Close()

	app.logger.Info(ctx, "Waiting for the store before registering routes...")
	select {
	case <-app.store.Ready():
	case <-ctx.Done():
		app.logger.Info(ctx, "Interrupted before the store became ready")
		wg.Wait()
		return nil
	case err := <-errCh:
		stop()
		wg.Wait()
		return err
	}

	reconciler, svc := app.routes()
	handler := rest.NewRouter([]byte(app.config.JWTSecret), *svc, app.logger)

	if app.config.ReconcileInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reconciler.RunEvery(ctx, app.config.ReconcileInterval)
		}()
	}

	go func() {
		if err := app.http.ListenAndServe(handler); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info(ctx, "Shutdown signal received")
	case runErr = <-errCh:
		app.logger.Error(ctx, "Server failed", "error", runErr)
		stop()
	}

	// The store goes first; Close logs its own errors.
	app.store.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.http.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "HTTP shutdown failed", "error", err)
	}

	wg.Wait()
	app.logger.Info(shutdownCtx, "Stopped")
	return runErr
}
