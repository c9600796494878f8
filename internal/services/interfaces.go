package services

import (
	"context"
	"time"

	"github.com/meltingdad/gsc-arena/internal/models"
	"github.com/meltingdad/gsc-arena/internal/store"

	"golang.org/x/oauth2"
)

// TokenStore persists the provider credential of each user
type TokenStore interface {
	GetToken(ctx context.Context, userID string) (*models.TokenRecord, error)
	UpsertToken(ctx context.Context, userID, access, refresh string, expiry time.Time) error
}

// UserStore persists signed-in accounts
type UserStore interface {
	UpsertUserByGoogleID(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// SiteStore persists registered sites and their metrics
type SiteStore interface {
	DomainExists(ctx context.Context, domain string) (bool, error)
	CreateSiteWithSnapshot(ctx context.Context, site *models.Site, snapshot *models.MetricsSnapshot) error
	ListSites(ctx context.Context) ([]models.Site, error)
	ListSitesWithLatestSnapshot(ctx context.Context) ([]store.SiteWithSnapshot, error)
	RecordRefresh(ctx context.Context, snapshot *models.MetricsSnapshot, daily []models.DailyMetric) error
	ListDailyMetrics(ctx context.Context, siteID string) ([]models.DailyMetric, error)
}

// CredentialSource turns a stored token into one that refreshes itself.
// *auth.OAuthProvider is the production implementation.
type CredentialSource interface {
	TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource
}

var (
	_ TokenStore = (*store.Store)(nil)
	_ UserStore  = (*store.Store)(nil)
	_ SiteStore  = (*store.Store)(nil)
)
