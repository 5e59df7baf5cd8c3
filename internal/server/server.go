// Package server boots the application: configuration, logging sinks,
// storage connections, pending migrations, then the HTTP listener with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockpile-io/stockpile/config"
	_ "github.com/stockpile-io/stockpile/database/migrations"
	"github.com/stockpile-io/stockpile/internal/kernel"
	"github.com/stockpile-io/stockpile/pkg/cache"
	"github.com/stockpile-io/stockpile/pkg/database"
	"github.com/stockpile-io/stockpile/pkg/logger"
	"github.com/stockpile-io/stockpile/pkg/migration"
)

const shutdownTimeout = 15 * time.Second

// Start runs the full boot sequence and blocks until the process
// receives SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeMongo, err := logger.EnableMongo(uri, config.LogMongoDB())
		if err != nil {
			logger.Warn("mongo log sink unavailable, logging to stdout only", "error", err)
		} else {
			defer closeMongo()
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}

	// Redis is optional: the cache degrades to a no-op when absent.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}

	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	httpKernel := kernel.NewHTTPKernel()
	defer httpKernel.Shutdown()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("stockpile listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("stopped")
	return nil
}
