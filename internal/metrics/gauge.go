package metrics

import (
	"context"
	"time"

	"github.com/meltingdad/gsc-arena/internal/logger"

	"go.uber.org/zap"
)

// SiteCounter is the store query behind the registered-sites gauge
type SiteCounter interface {
	CountSites(ctx context.Context) (int64, error)
}

// GaugeUpdater refreshes gauges that are derived from the database.
type GaugeUpdater struct {
	store    SiteCounter
	recorder Recorder

	// failures are logged at most once per window
	logWindow  time.Duration
	lastLogged time.Time
}

// NewGaugeUpdater creates a GaugeUpdater
func NewGaugeUpdater(store SiteCounter, recorder Recorder) *GaugeUpdater {
	return &GaugeUpdater{
		store:     store,
		recorder:  recorder,
		logWindow: 5 * time.Minute,
	}
}

// Update queries the store once and sets the gauges
func (g *GaugeUpdater) Update(ctx context.Context) {
	count, err := g.store.CountSites(ctx)
	if err != nil {
		g.recorder.RecordDatabaseQueryError("count_sites")
		if now := time.Now(); now.Sub(g.lastLogged) >= g.logWindow {
			logger.Warn("failed to count sites for metrics",
				zap.Error(err),
				zap.Duration("suppressed_for", g.logWindow))
			g.lastLogged = now
		}
		return
	}
	g.recorder.SetSitesRegistered(int(count))
}

// Run calls Update immediately and then every interval until ctx is done
func (g *GaugeUpdater) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	g.Update(ctx)
	for {
		select {
		case <-ticker.C:
			g.Update(ctx)
		case <-ctx.Done():
			return
		}
	}
}
