package bootstrap

import (
	"github.com/meltingdad/gsc-arena/internal/auth"
	"github.com/meltingdad/gsc-arena/internal/handlers"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/services"
)

// handlerSet holds all HTTP handlers and required services
type handlerSet struct {
	oauth       *handlers.OAuthHandler
	website     *handlers.WebsiteHandler
	gsc         *handlers.GSCHandler
	userService *services.UserService
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	provider *auth.OAuthProvider,
	userService *services.UserService,
	leaderboardService *services.LeaderboardService,
	websiteService *services.WebsiteService,
	recorder metrics.Recorder,
) handlerSet {
	return handlerSet{
		oauth:       handlers.NewOAuthHandler(provider, userService, recorder),
		website:     handlers.NewWebsiteHandler(websiteService, leaderboardService),
		gsc:         handlers.NewGSCHandler(websiteService),
		userService: userService,
	}
}
