package models

import (
	"time"
)

// Site is a Search Console property registered on the leaderboard.
type Site struct {
	ID        string            `gorm:"primaryKey"           json:"id"`
	UserID    string            `gorm:"not null;index"       json:"userId"`
	Domain    string            `gorm:"uniqueIndex;not null" json:"domain"`
	SiteURL   string            `gorm:"not null"             json:"siteUrl"`
	Anonymous bool              `gorm:"not null;default:false" json:"anonymous"`
	CreatedAt time.Time         `json:"createdAt"`
	Metrics   []MetricsSnapshot `gorm:"foreignKey:SiteID"    json:"metrics,omitempty"`
}

// TableName overrides the table name used by Site to `websites`
func (Site) TableName() string {
	return "websites"
}
