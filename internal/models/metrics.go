package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateRangeLast28Days labels snapshots computed over the trailing 28 days
const DateRangeLast28Days = "last_28_days"

// MetricsSnapshot is one aggregated Search Console reading for a site.
// The leaderboard only reads the newest snapshot per site.
type MetricsSnapshot struct {
	ID               uint      `gorm:"primaryKey"                  json:"id"`
	SiteID           string    `gorm:"not null;index"              json:"siteId"`
	TotalClicks      int64     `gorm:"not null;default:0"          json:"totalClicks"`
	TotalImpressions int64     `gorm:"not null;default:0"          json:"totalImpressions"`
	AverageCTR       float64   `gorm:"column:average_ctr;not null" json:"averageCtr"`
	AveragePosition  float64   `gorm:"not null"                    json:"averagePosition"`
	DateRange        string    `gorm:"not null"                    json:"dateRange"`
	LastUpdated      time.Time `gorm:"not null;index"              json:"lastUpdated"`
}

// TableName overrides the table name used by MetricsSnapshot to `website_metrics`
func (MetricsSnapshot) TableName() string {
	return "website_metrics"
}

// DailyMetric is a single day of Search Console totals for a site.
type DailyMetric struct {
	ID          uint           `gorm:"primaryKey"                                         json:"-"`
	SiteID      string         `gorm:"not null;uniqueIndex:idx_daily_site_date,priority:1" json:"-"`
	Date        datatypes.Date `gorm:"not null;uniqueIndex:idx_daily_site_date,priority:2" json:"date"`
	Clicks      int64          `gorm:"not null;default:0"                                 json:"clicks"`
	Impressions int64          `gorm:"not null;default:0"                                 json:"impressions"`
	CTR         float64        `gorm:"column:ctr;not null"                                json:"ctr"`
	Position    float64        `gorm:"not null"                                           json:"position"`
}

// TableName overrides the table name used by DailyMetric to `daily_metrics`
func (DailyMetric) TableName() string {
	return "daily_metrics"
}
