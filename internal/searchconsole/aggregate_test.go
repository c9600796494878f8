package searchconsole

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Aggregate(nil))
	assert.Equal(t, Summary{}, Aggregate([]Row{}))
}

func TestAggregate_TwoRows(t *testing.T) {
	s := Aggregate([]Row{
		{Clicks: 10, Impressions: 100, Position: 5},
		{Clicks: 20, Impressions: 100, Position: 15},
	})

	assert.Equal(t, int64(30), s.TotalClicks)
	assert.Equal(t, int64(200), s.TotalImpressions)
	assert.InDelta(t, 15.0, s.AverageCTR, 1e-9)
	assert.InDelta(t, 10.0, s.AveragePosition, 1e-9)
}

func TestAggregate_ZeroImpressions(t *testing.T) {
	s := Aggregate([]Row{{Clicks: 0, Impressions: 0, Position: 7}})

	assert.Zero(t, s.AverageCTR)
	assert.InDelta(t, 7.0, s.AveragePosition, 1e-9)
}

func TestAggregate_CTRIsNotRounded(t *testing.T) {
	s := Aggregate([]Row{{Clicks: 1, Impressions: 3, Position: 1}})

	assert.InDelta(t, 33.333333333, s.AverageCTR, 1e-6)
}

func TestLast28Days(t *testing.T) {
	now := time.Date(2025, time.March, 29, 23, 30, 0, 0, time.UTC)
	r := Last28Days(now)

	assert.Equal(t, "2025-03-01", r.Start)
	assert.Equal(t, "2025-03-29", r.End)
}

func TestLastNDays_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2025, time.January, 1, 5, 0, 0, 0, loc) // 2024-12-31 20:00 UTC
	r := LastNDays(now, 1)

	assert.Equal(t, "2024-12-30", r.Start)
	assert.Equal(t, "2024-12-31", r.End)
}
