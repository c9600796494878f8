package services

import (
	"context"
	"time"

	"github.com/meltingdad/gsc-arena/internal/logger"
	"github.com/meltingdad/gsc-arena/internal/models"
	"github.com/meltingdad/gsc-arena/internal/searchconsole"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const dateDimension = "date"

// RefreshResult counts the sites a refresh run touched
type RefreshResult struct {
	Refreshed int
	Failed    int
}

// RefreshAll takes a new 28-day snapshot and updates the daily history of
// every registered site. A failing site is logged and skipped.
func (s *WebsiteService) RefreshAll(ctx context.Context) (RefreshResult, error) {
	var result RefreshResult

	sites, err := s.sites.ListSites(ctx)
	if err != nil {
		return result, err
	}

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.RefreshSite(ctx, site); err != nil {
			result.Failed++
			s.metrics.RecordSnapshotRefresh(false)
			logger.ErrorCtx(ctx, err,
				zap.String("site_id", site.ID),
				zap.String("domain", site.Domain),
			)
			continue
		}
		result.Refreshed++
		s.metrics.RecordSnapshotRefresh(true)
	}

	// Snapshots are only written by a successful RefreshSite
	if result.Refreshed > 0 {
		s.board.Invalidate(ctx)
	}
	return result, nil
}

// RefreshSite re-runs the metrics fetch for one site under its owner's
// credential. Both windows are fetched before anything is written, then the
// snapshot and daily rows are recorded together.
func (s *WebsiteService) RefreshSite(ctx context.Context, site models.Site) error {
	cred, err := s.credentials.Load(ctx, site.UserID)
	if err != nil {
		return err
	}

	now := s.now()
	rows, err := s.query(ctx, cred, site.SiteURL, searchconsole.Last28Days(now))
	if err != nil {
		return err
	}

	var daily []models.DailyMetric
	if s.historyDays > 0 {
		dayRows, err := s.query(ctx, cred, site.SiteURL,
			searchconsole.LastNDays(now, s.historyDays), dateDimension)
		if err != nil {
			return err
		}
		daily = toDailyMetrics(site.ID, dayRows)
	}

	snapshot := newSnapshot(searchconsole.Aggregate(rows), now)
	snapshot.SiteID = site.ID
	if err := s.sites.RecordRefresh(ctx, snapshot, daily); err != nil {
		return err
	}

	s.credentials.SaveRefreshed(ctx, cred)
	return nil
}

// toDailyMetrics converts rows keyed by the date dimension. Rows whose key
// is not a date are dropped.
func toDailyMetrics(siteID string, rows []searchconsole.Row) []models.DailyMetric {
	out := make([]models.DailyMetric, 0, len(rows))
	for _, r := range rows {
		if len(r.Keys) == 0 {
			continue
		}
		day, err := time.Parse(searchconsole.DateLayout, r.Keys[0])
		if err != nil {
			logger.Warn("skipping daily row with bad date", zap.String("key", r.Keys[0]))
			continue
		}
		out = append(out, models.DailyMetric{
			SiteID:      siteID,
			Date:        datatypes.Date(day),
			Clicks:      int64(r.Clicks),
			Impressions: int64(r.Impressions),
			CTR:         r.CTR * 100,
			Position:    r.Position,
		})
	}
	return out
}
