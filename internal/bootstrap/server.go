package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"

	"github.com/appleboy/graceful"
	"go.uber.org/zap"
)

const gaugeUpdateInterval = time.Minute

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// registration waits on Search Console
		WriteTimeout: cfg.OAuthTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("Failed to start server", zap.Error(err))
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("Server forced to shutdown", zap.Error(err))
			return err
		}

		logger.Info("Server exited")
		return nil
	})
}

// addMetricsGaugeUpdateJob keeps the registered-sites gauge current
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db metrics.SiteCounter,
	recorder metrics.Recorder,
) {
	if !cfg.MetricsEnabled {
		return
	}

	updater := metrics.NewGaugeUpdater(db, recorder)
	m.AddRunningJob(func(ctx context.Context) error {
		updater.Run(ctx, gaugeUpdateInterval)
		return nil
	})
}

// addResourceCleanupJob closes the cache and database and flushes logs
func addResourceCleanupJob(m *graceful.Manager, app *Application) {
	m.AddShutdownJob(func() error {
		logger.Info("Releasing resources...")
		if err := app.Close(); err != nil {
			logger.Warn("Error releasing resources", zap.Error(err))
			return err
		}
		logger.Flush(2 * time.Second)
		return nil
	})
}
