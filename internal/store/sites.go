package store

import (
	"context"

	"github.com/meltingdad/gsc-arena/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteWithSnapshot pairs a site with its newest metrics snapshot.
// Latest is nil when the site has never been measured.
type SiteWithSnapshot struct {
	Site   models.Site
	Latest *models.MetricsSnapshot
}

// DomainExists reports whether a site with the canonical domain is registered
func (s *Store) DomainExists(ctx context.Context, domain string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Site{}).
		Where("domain = ?", domain).
		Count(&count).Error
	if err != nil {
		return false, wrap("domain_exists", err)
	}
	return count > 0, nil
}

// CreateSiteWithSnapshot writes a new site and its first snapshot in one
// transaction. A taken domain surfaces as ErrDuplicateKey and nothing is written.
func (s *Store) CreateSiteWithSnapshot(
	ctx context.Context,
	site *models.Site,
	snapshot *models.MetricsSnapshot,
) error {
	if site.ID == "" {
		site.ID = uuid.New().String()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(site).Error; err != nil {
			return err
		}
		snapshot.SiteID = site.ID
		return tx.Create(snapshot).Error
	})
	if err != nil {
		return wrap("create_site", err)
	}

	site.Metrics = []models.MetricsSnapshot{*snapshot}
	return nil
}

// RecordRefresh stores a refreshed snapshot and the daily rows fetched in
// the same run in one transaction. Days already stored are overwritten.
// On error nothing is written.
func (s *Store) RecordRefresh(
	ctx context.Context,
	snapshot *models.MetricsSnapshot,
	daily []models.DailyMetric,
) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(daily) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "site_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"clicks", "impressions", "ctr", "position"}),
			}).Create(&daily).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(snapshot).Error
	})
	return wrap("record_refresh", err)
}

// ListSites returns every registered site ordered by creation time
func (s *Store) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&sites).Error; err != nil {
		return nil, wrap("list_sites", err)
	}
	return sites, nil
}

// CountSites returns the number of registered sites
func (s *Store) CountSites(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Site{}).Count(&count).Error; err != nil {
		return 0, wrap("count_sites", err)
	}
	return count, nil
}

// ListSitesWithLatestSnapshot loads every site together with its most
// recent snapshot by LastUpdated. Only one snapshot per site is read.
func (s *Store) ListSitesWithLatestSnapshot(ctx context.Context) ([]SiteWithSnapshot, error) {
	db := s.db.WithContext(ctx)

	var sites []models.Site
	if err := db.Order("created_at ASC, id ASC").Find(&sites).Error; err != nil {
		return nil, wrap("list_leaderboard", err)
	}

	ranked := db.Model(&models.MetricsSnapshot{}).
		Select("id, ROW_NUMBER() OVER (PARTITION BY site_id ORDER BY last_updated DESC, id DESC) AS rn")
	latestIDs := db.Table("(?) AS ranked", ranked).Select("id").Where("rn = ?", 1)

	var latest []models.MetricsSnapshot
	if err := db.Where("id IN (?)", latestIDs).Find(&latest).Error; err != nil {
		return nil, wrap("list_leaderboard", err)
	}

	bySite := make(map[string]*models.MetricsSnapshot, len(latest))
	for i := range latest {
		bySite[latest[i].SiteID] = &latest[i]
	}

	result := make([]SiteWithSnapshot, 0, len(sites))
	for _, site := range sites {
		result = append(result, SiteWithSnapshot{Site: site, Latest: bySite[site.ID]})
	}
	return result, nil
}

// ListDailyMetrics returns a site's daily history, oldest first
func (s *Store) ListDailyMetrics(ctx context.Context, siteID string) ([]models.DailyMetric, error) {
	var rows []models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap("list_daily_metrics", err)
	}
	return rows, nil
}
