package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/cache"
	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/leaderboard"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/searchconsole"
	"github.com/meltingdad/gsc-arena/internal/services"
	"github.com/meltingdad/gsc-arena/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB               *store.Store
	MetricsRecorder  metrics.Recorder
	LeaderboardCache cache.Cache[[]leaderboard.RankedEntry]
	HTTPClient       *http.Client

	// Google
	OAuthProvider *auth.OAuthProvider
	SearchConsole searchconsole.ClientFactory

	// Services
	UserService        *services.UserService
	LeaderboardService *services.LeaderboardService
	WebsiteService     *services.WebsiteService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// New runs every initialization phase except the HTTP layer. Callers must
// Close the returned application.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return nil, err
	}

	// Phase 2: Logging
	if err := initializeLogger(cfg); err != nil {
		return nil, err
	}

	// Phase 3: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	// Phase 4: Initialize business layer
	app.initializeBusinessLayer()

	return app, nil
}

// Run initializes the application and serves HTTP until a shutdown signal
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}

	// Phase 5: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 6: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// Refresh re-fetches metrics for every registered site once, bounded by
// REFRESH_TIMEOUT.
func Refresh(ctx context.Context, cfg *config.Config) (services.RefreshResult, error) {
	app, err := New(ctx, cfg)
	if err != nil {
		return services.RefreshResult{}, err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(err)
		}
		logger.Flush(2 * time.Second)
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
	defer cancel()

	result, err := app.WebsiteService.RefreshAll(ctx)
	logger.Info("refresh finished",
		zap.Int("refreshed", result.Refreshed),
		zap.Int("failed", result.Failed),
	)
	return result, err
}

// initializeInfrastructure sets up database, metrics, cache and the outbound HTTP client
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)

	// Leaderboard cache
	app.LeaderboardCache, err = initializeLeaderboardCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Google clients
	app.HTTPClient, err = createOAuthHTTPClient(app.Config)
	if err != nil {
		return err
	}
	app.OAuthProvider = initializeGoogleProvider(app.Config, app.HTTPClient)
	app.SearchConsole = searchconsole.NewClientFactory(app.HTTPClient)

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	app.UserService,
		app.LeaderboardService,
		app.WebsiteService = initializeServices(
		app.Config,
		app.DB,
		app.LeaderboardCache,
		app.OAuthProvider,
		app.SearchConsole,
		app.MetricsRecorder,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.OAuthProvider,
		app.UserService,
		app.LeaderboardService,
		app.WebsiteService,
		app.MetricsRecorder,
	)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.LeaderboardCache,
		app.HandlerSet,
		app.MetricsRecorder,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager(graceful.WithLogger(logger.Sugar()))

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder)
	addResourceCleanupJob(m, app)

	// Wait for graceful shutdown
	<-m.Done()
}

// Close releases the cache and database connections
func (app *Application) Close() error {
	var errs []error
	if app.LeaderboardCache != nil {
		errs = append(errs, app.LeaderboardCache.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
