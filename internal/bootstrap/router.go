package bootstrap

import (
	"context"
	"net/http"

	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/handlers"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionName = "gsc_arena_session"

// HealthChecker reports whether the database is reachable
type HealthChecker interface {
	Health() error
}

// CacheHealthChecker reports whether the leaderboard cache is reachable
type CacheHealthChecker interface {
	Health(ctx context.Context) error
}

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db HealthChecker,
	leaderboardCache CacheHealthChecker,
	h handlerSet,
	prometheusMetrics metrics.Recorder,
) *gin.Engine {
	// Setup Gin mode
	setupGinMode(cfg)
	r := gin.New()

	// Setup middleware
	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(middleware.Logger(), middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Setup session middleware
	setupSessionMiddleware(r, cfg)

	// Health check endpoint
	r.GET("/health", createHealthCheckHandler(db, leaderboardCache))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Setup all routes
	setupAllRoutes(r, h)

	// Log server startup info
	logServerStartup(cfg)

	return r
}

// setupSessionMiddleware configures session handling middleware
func setupSessionMiddleware(r *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, sessionStore))
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		logger.Info("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		logger.Info("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		logger.Info("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet) {
	requireAuth := middleware.RequireAuth(h.userService)

	// Google sign-in
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", h.oauth.Login)
		authGroup.GET("/callback", h.oauth.Callback)
		authGroup.GET("/logout", h.oauth.Logout)
		authGroup.GET("/me", requireAuth, h.oauth.Me)
	}
	r.GET(handlers.AuthErrorPath, h.oauth.AuthCodeError)

	// Leaderboard
	r.GET("/websites", h.website.List)
	r.POST("/websites", requireAuth, h.website.Create)
	r.GET("/websites/:id/metrics", h.website.Metrics)

	// Search Console properties of the signed-in user
	r.GET("/gsc/sites", requireAuth, h.gsc.Sites)
}

// createHealthCheckHandler reports database and leaderboard cache status.
// A failing cache only degrades the response since reads fall back to the
// database.
func createHealthCheckHandler(db HealthChecker, lc CacheHealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cacheStatus := "disabled"
		if lc != nil {
			cacheStatus = "connected"
			if err := lc.Health(ctx); err != nil {
				logger.WarnCtx(ctx, "leaderboard cache health check failed", zap.Error(err))
				cacheStatus = "disconnected"
			}
		}

		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
				"cache":    cacheStatus,
			})
		default:
			logger.WarnCtx(ctx, "health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
				"cache":    cacheStatus,
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	logger.Info("Gin mode", zap.String("mode", ginModeLogMessage[cfg.IsProduction]))
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	logger.Info("GSC Arena server starting",
		zap.String("addr", cfg.ServerAddr),
		zap.String("base_url", cfg.BaseURL),
		zap.String("oauth_callback", cfg.GoogleRedirectURL),
		zap.String("leaderboard_cache", cfg.LeaderboardCacheType),
	)
}
