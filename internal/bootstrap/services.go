package bootstrap

import (
	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/cache"
	"github.com/meltingdad/gsc-arena/internal/config"
	"github.com/meltingdad/gsc-arena/internal/leaderboard"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/searchconsole"
	"github.com/meltingdad/gsc-arena/internal/services"
	"github.com/meltingdad/gsc-arena/internal/store"
)

// initializeServices creates all business services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	leaderboardCache cache.Cache[[]leaderboard.RankedEntry],
	provider *auth.OAuthProvider,
	clients searchconsole.ClientFactory,
	recorder metrics.Recorder,
) (*services.UserService, *services.LeaderboardService, *services.WebsiteService) {
	userService := services.NewUserService(db, db, recorder)
	leaderboardService := services.NewLeaderboardService(
		db,
		leaderboardCache,
		cfg.LeaderboardCacheTTL,
		recorder,
	)
	websiteService := services.NewWebsiteService(
		db,
		services.NewCredentialService(db, provider),
		clients,
		leaderboardService,
		recorder,
		cfg.DailyHistoryDays,
	)
	return userService, leaderboardService, websiteService
}
