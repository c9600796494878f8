package services

import (
	"context"
	"sync"
	"time"

	"github.com/meltingdad/gsc-arena/internal/cache"
	"github.com/meltingdad/gsc-arena/internal/leaderboard"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/models"

	"go.uber.org/zap"
)

const leaderboardKeyPrefix = "leaderboard:"

var (
	sortFields = []leaderboard.SortField{
		leaderboard.SortByClicks,
		leaderboard.SortByImpressions,
		leaderboard.SortByCTR,
		leaderboard.SortByPosition,
	}
	directions = []leaderboard.Direction{leaderboard.Ascending, leaderboard.Descending}
)

// LeaderboardService serves the ranked site list, optionally through a cache.
//
// Every Invalidate bumps a generation counter, and a build started before
// the bump is not written back. The counter is per process: a build in the
// server racing a refresh run in another process can still cache stale
// entries, which then live at most one cache TTL.
type LeaderboardService struct {
	sites   SiteStore
	cache   cache.Cache[[]leaderboard.RankedEntry] // nil disables caching
	ttl     time.Duration
	metrics metrics.Recorder

	mu         sync.RWMutex
	generation uint64
}

func NewLeaderboardService(
	sites SiteStore,
	c cache.Cache[[]leaderboard.RankedEntry],
	ttl time.Duration,
	m metrics.Recorder,
) *LeaderboardService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &LeaderboardService{sites: sites, cache: c, ttl: ttl, metrics: m}
}

func leaderboardKey(field leaderboard.SortField, dir leaderboard.Direction) string {
	return leaderboardKeyPrefix + string(field) + ":" + string(dir)
}

// Leaderboard returns every measured site ranked by field in dir order
func (s *LeaderboardService) Leaderboard(
	ctx context.Context,
	field leaderboard.SortField,
	dir leaderboard.Direction,
) ([]leaderboard.RankedEntry, error) {
	if s.cache == nil {
		return s.build(ctx, field, dir)
	}

	missed := false
	entries, err := cache.GetWithFetch(
		ctx,
		s.guarded(),
		leaderboardKey(field, dir),
		s.ttl,
		func(ctx context.Context, _ string) ([]leaderboard.RankedEntry, error) {
			missed = true
			return s.build(ctx, field, dir)
		},
	)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLeaderboardCache(!missed)
	return entries, nil
}

// generationCache drops Set calls once the board has been invalidated
// after the read that produced the value began.
type generationCache struct {
	cache.Cache[[]leaderboard.RankedEntry]
	board      *LeaderboardService
	generation uint64
}

func (g generationCache) Set(
	ctx context.Context,
	key string,
	value []leaderboard.RankedEntry,
	ttl time.Duration,
) error {
	g.board.mu.RLock()
	defer g.board.mu.RUnlock()
	if g.board.generation != g.generation {
		return nil
	}
	return g.Cache.Set(ctx, key, value, ttl)
}

func (s *LeaderboardService) guarded() generationCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return generationCache{Cache: s.cache, board: s, generation: s.generation}
}

func (s *LeaderboardService) build(
	ctx context.Context,
	field leaderboard.SortField,
	dir leaderboard.Direction,
) ([]leaderboard.RankedEntry, error) {
	rows, err := s.sites.ListSitesWithLatestSnapshot(ctx)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_leaderboard")
		return nil, err
	}

	entries := make([]leaderboard.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, leaderboard.Entry{Site: r.Site, Snapshot: r.Latest})
	}
	return leaderboard.Build(entries, field, dir), nil
}

// Invalidate drops every cached ordering so the next read sees new data
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	for _, f := range sortFields {
		for _, d := range directions {
			if err := s.cache.Delete(ctx, leaderboardKey(f, d)); err != nil {
				logger.WarnCtx(ctx, "failed to invalidate leaderboard cache",
					zap.String("key", leaderboardKey(f, d)), zap.Error(err))
			}
		}
	}
}

// DailyMetrics returns the stored daily history of a site, oldest first.
// An unknown site yields an empty list.
func (s *LeaderboardService) DailyMetrics(ctx context.Context, siteID string) ([]models.DailyMetric, error) {
	rows, err := s.sites.ListDailyMetrics(ctx, siteID)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_daily_metrics")
		return nil, err
	}
	if rows == nil {
		rows = []models.DailyMetric{}
	}
	return rows, nil
}
