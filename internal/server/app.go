// Package server wires the development API server together: it opens
// Postgres and applies migrations, connects object storage and the token
// revocation list, and serves the HTTP API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/chyrp/internal/logging"
	"github.com/dmitrijs2005/chyrp/internal/server/config"
	"github.com/dmitrijs2005/chyrp/internal/server/httpapi"
	"github.com/dmitrijs2005/chyrp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/chyrp/internal/server/revocation"
	"github.com/dmitrijs2005/chyrp/internal/server/services"
	"github.com/dmitrijs2005/chyrp/internal/server/storage"
)

// Seams over the external backends.
var (
	openDB         = repomanager.OpenPostgres
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newObjectStore = func(ctx context.Context, c *config.Config, log logging.Logger) (storage.ObjectStore, error) {
		return storage.NewS3Store(ctx, c, log)
	}
	dialRedis = func(ctx context.Context, addr string, log logging.Logger) (revocation.Store, io.Closer, error) {
		rdb, err := revocation.Dial(ctx, addr)
		if err != nil {
			return nil, nil, err
		}
		return revocation.NewRedisStore(rdb, log), rdb, nil
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	closers []io.Closer
	echo    *echo.Echo
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db)

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newObjectStore(ctx, c, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	var revoked revocation.Store
	if c.RedisAddr != "" {
		rs, closer, err := dialRedis(ctx, c.RedisAddr, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		revoked = rs
		app.closers = append(app.closers, closer)
	} else {
		logger.Warn(ctx, "no redis address configured, revocations are kept in memory")
		revoked = revocation.NewMemoryStore()
	}

	h := httpapi.NewHandler(
		services.NewUserService(db, rm, revoked, c, logger),
		services.NewPostService(db, rm, logger),
		services.NewMediaService(store, c.MaxUploadSize, logger),
		logger,
	)
	app.echo = httpapi.NewServer(h, c.MaxUploadSize)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	app.logger.Info(ctx, "listening", "addr", app.config.ListenAddr)

	if err := app.echo.Start(app.config.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server stopped", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a termination signal arrives, then
// shuts the server down within ShutdownTimeout.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.echo.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	wg.Wait()
	app.Close()
	app.logger.Info(shutdownCtx, "Stopped")
}

// Close releases the database and Redis connections.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close error", "error", err)
		}
	}
	app.closers = nil
}
