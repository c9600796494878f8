package bootstrap

import (
	"context"
	"fmt"

	"github.com/meltingdad/gsc-arena/internal/cache"
	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/leaderboard"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"

	"go.uber.org/zap"
)

const leaderboardCachePrefix = "gsc-arena:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		logger.Info("Prometheus metrics initialized")
	} else {
		logger.Info("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeLeaderboardCache returns nil when caching is disabled
func initializeLeaderboardCache(
	ctx context.Context,
	cfg *config.Config,
) (cache.Cache[[]leaderboard.RankedEntry], error) {
	switch cfg.LeaderboardCacheType {
	case config.CacheTypeNone:
		logger.Info("Leaderboard cache: disabled")
		return nil, nil //nolint:nilnil // caching disabled by configuration

	case config.CacheTypeRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
		defer cancel()

		c, err := cache.DialRedisCache[[]leaderboard.RankedEntry](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			leaderboardCachePrefix,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis leaderboard cache: %w", err)
		}
		logger.Info("Leaderboard cache: redis",
			zap.String("addr", cfg.RedisAddr),
			zap.Int("db", cfg.RedisDB),
			zap.Duration("ttl", cfg.LeaderboardCacheTTL),
		)
		return c, nil

	default: // memory
		logger.Info("Leaderboard cache: memory (single instance only)",
			zap.Duration("ttl", cfg.LeaderboardCacheTTL))
		return cache.NewMemoryCache[[]leaderboard.RankedEntry](), nil
	}
}
