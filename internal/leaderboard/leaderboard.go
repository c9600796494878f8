package leaderboard

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/meltingdad/gsc-arena/internal/domain"
	"github.com/meltingdad/gsc-arena/internal/models"
)

// SortField selects the metric the leaderboard is ordered by.
type SortField string

const (
	SortByClicks      SortField = "clicks"
	SortByImpressions SortField = "impressions"
	SortByCTR         SortField = "ctr"
	SortByPosition    SortField = "position"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

const (
	DefaultSortField = SortByClicks
	DefaultDirection = Descending
)

// Entry is a registered site with its newest snapshot, if any.
type Entry struct {
	Site     models.Site
	Snapshot *models.MetricsSnapshot
}

// RankedEntry is one leaderboard row as served to clients.
type RankedEntry struct {
	ID          string    `json:"id"`
	Rank        int       `json:"rank"`
	Domain      string    `json:"domain"`
	URL         string    `json:"url"`
	FaviconURL  string    `json:"faviconUrl"`
	Clicks      int64     `json:"clicks"`
	Impressions int64     `json:"impressions"`
	CTR         float64   `json:"ctr"`
	Position    float64   `json:"position"`
	LastUpdated time.Time `json:"lastUpdated"`
	Anonymous   bool      `json:"anonymous"`
}

// ParseSortField maps a query value to a SortField, falling back to clicks
func ParseSortField(s string) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortByClicks, SortByImpressions, SortByCTR, SortByPosition:
		return f
	default:
		return DefaultSortField
	}
}

// ParseDirection maps a query value to a Direction, falling back to desc
func ParseDirection(s string) Direction {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Ascending, Descending:
		return d
	default:
		return DefaultDirection
	}
}

// Build ranks entries by field in the given direction. Rank is the 1-based
// position in that order; equal values are ordered by domain then ID.
// Entries without a snapshot are skipped. The result is never nil.
func Build(entries []Entry, field SortField, dir Direction) []RankedEntry {
	field = ParseSortField(string(field))
	dir = ParseDirection(string(dir))

	measured := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Snapshot != nil {
			measured = append(measured, e)
		}
	}

	slices.SortFunc(measured, func(a, b Entry) int {
		c := compareField(a.Snapshot, b.Snapshot, field)
		if dir == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c = strings.Compare(a.Site.Domain, b.Site.Domain); c != 0 {
			return c
		}
		return strings.Compare(a.Site.ID, b.Site.ID)
	})

	ranked := make([]RankedEntry, 0, len(measured))
	for i, e := range measured {
		ranked = append(ranked, toRanked(e, i+1))
	}
	return ranked
}

func compareField(a, b *models.MetricsSnapshot, field SortField) int {
	switch field {
	case SortByImpressions:
		return cmp.Compare(a.TotalImpressions, b.TotalImpressions)
	case SortByCTR:
		return cmp.Compare(a.AverageCTR, b.AverageCTR)
	case SortByPosition:
		return cmp.Compare(a.AveragePosition, b.AveragePosition)
	default:
		return cmp.Compare(a.TotalClicks, b.TotalClicks)
	}
}

func toRanked(e Entry, rank int) RankedEntry {
	r := RankedEntry{
		ID:          e.Site.ID,
		Rank:        rank,
		Clicks:      e.Snapshot.TotalClicks,
		Impressions: e.Snapshot.TotalImpressions,
		CTR:         e.Snapshot.AverageCTR,
		Position:    e.Snapshot.AveragePosition,
		LastUpdated: e.Snapshot.LastUpdated,
		Anonymous:   e.Site.Anonymous,
	}
	if !e.Site.Anonymous {
		r.Domain = e.Site.Domain
		r.URL = domain.DisplayURL(e.Site.Domain)
		r.FaviconURL = domain.FaviconURL(e.Site.Domain)
	}
	return r
}
