package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/meltingdad/gsc-arena/internal/domain"
	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/metrics"
	"github.com/meltingdad/gsc-arena/internal/models"
	"github.com/meltingdad/gsc-arena/internal/searchconsole"
	"github.com/meltingdad/gsc-arena/internal/store"

	"go.uber.org/zap"
)

// Registration results recorded in metrics
const (
	registrationSuccess  = "success"
	registrationConflict = "conflict"
	registrationRejected = "rejected"
	registrationUpstream = "upstream_error"
	registrationError    = "error"
)

// RegisterInput is a request to put a Search Console property on the leaderboard
type RegisterInput struct {
	UserID    string
	SiteURL   string
	Anonymous bool
}

// Registration is the stored site and its first snapshot
type Registration struct {
	Site     *models.Site
	Snapshot *models.MetricsSnapshot
}

// WebsiteService registers sites and keeps their metrics current.
type WebsiteService struct {
	sites       SiteStore
	credentials *CredentialService
	clients     searchconsole.ClientFactory
	board       *LeaderboardService
	metrics     metrics.Recorder
	historyDays int
	now         func() time.Time
}

func NewWebsiteService(
	sites SiteStore,
	credentials *CredentialService,
	clients searchconsole.ClientFactory,
	board *LeaderboardService,
	m metrics.Recorder,
	historyDays int,
) *WebsiteService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &WebsiteService{
		sites:       sites,
		credentials: credentials,
		clients:     clients,
		board:       board,
		metrics:     m,
		historyDays: historyDays,
		now:         time.Now,
	}
}

// Register fetches the last 28 days of metrics for the property and stores
// the site with that snapshot. Nothing is written unless every step succeeds.
func (s *WebsiteService) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	reg, err := s.register(ctx, in)
	s.metrics.RecordSiteRegistration(registrationResult(err))
	return reg, err
}

func (s *WebsiteService) register(ctx context.Context, in RegisterInput) (*Registration, error) {
	if in.UserID == "" {
		return nil, ErrUnauthenticated
	}
	siteURL := strings.TrimSpace(in.SiteURL)
	if siteURL == "" {
		return nil, ErrBadRequest
	}

	cred, err := s.credentials.Load(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	canonical := domain.Normalize(siteURL)
	if canonical == "" {
		return nil, ErrBadRequest
	}
	exists, err := s.sites.DomainExists(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDomainConflict
	}

	now := s.now()
	rows, err := s.query(ctx, cred, siteURL, searchconsole.Last28Days(now))
	if err != nil {
		return nil, err
	}
	s.credentials.SaveRefreshed(ctx, cred)

	summary := searchconsole.Aggregate(rows)
	site := &models.Site{
		UserID:    in.UserID,
		Domain:    canonical,
		SiteURL:   siteURL,
		Anonymous: in.Anonymous,
	}
	snapshot := newSnapshot(summary, now)

	if err := s.sites.CreateSiteWithSnapshot(ctx, site, snapshot); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrDomainConflict
		}
		return nil, err
	}

	s.board.Invalidate(ctx)
	logger.Info("website registered",
		zap.String("site_id", site.ID),
		zap.String("domain", site.Domain),
		zap.Int64("clicks", snapshot.TotalClicks),
	)
	return &Registration{Site: site, Snapshot: snapshot}, nil
}

// ListProperties returns the Search Console properties the user can register
func (s *WebsiteService) ListProperties(ctx context.Context, userID string) ([]searchconsole.Site, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	cred, err := s.credentials.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	client, err := s.clients(ctx, cred)
	if err != nil {
		return nil, &UpstreamError{Op: "client", Err: err}
	}

	start := time.Now()
	sites, err := client.ListSites(ctx)
	s.metrics.RecordUpstreamCall("sites.list", err == nil, time.Since(start))
	if err != nil {
		return nil, &UpstreamError{Op: "sites.list", Err: err}
	}
	s.credentials.SaveRefreshed(ctx, cred)

	if sites == nil {
		sites = []searchconsole.Site{}
	}
	return sites, nil
}

func (s *WebsiteService) query(
	ctx context.Context,
	cred *Credential,
	siteURL string,
	window searchconsole.DateRange,
	dimensions ...string,
) ([]searchconsole.Row, error) {
	client, err := s.clients(ctx, cred)
	if err != nil {
		return nil, &UpstreamError{Op: "client", Err: err}
	}

	start := time.Now()
	rows, err := client.Query(ctx, siteURL, window, dimensions...)
	s.metrics.RecordUpstreamCall("searchanalytics.query", err == nil, time.Since(start))
	if err != nil {
		return nil, &UpstreamError{Op: "searchanalytics.query", Err: err}
	}
	return rows, nil
}

func newSnapshot(summary searchconsole.Summary, now time.Time) *models.MetricsSnapshot {
	return &models.MetricsSnapshot{
		TotalClicks:      summary.TotalClicks,
		TotalImpressions: summary.TotalImpressions,
		AverageCTR:       summary.AverageCTR,
		AveragePosition:  summary.AveragePosition,
		DateRange:        models.DateRangeLast28Days,
		LastUpdated:      now,
	}
}

func registrationResult(err error) string {
	var upstream *UpstreamError
	switch {
	case err == nil:
		return registrationSuccess
	case errors.Is(err, ErrDomainConflict):
		return registrationConflict
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrNoCredential):
		return registrationRejected
	case errors.As(err, &upstream):
		return registrationUpstream
	default:
		return registrationError
	}
}
