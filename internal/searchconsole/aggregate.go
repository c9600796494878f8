package searchconsole

import (
	"math"
	"time"
)

// DateLayout is the date format the Search Analytics API accepts
const DateLayout = "2006-01-02"

// Row is one result row of a Search Analytics query.
type Row struct {
	Keys        []string
	Clicks      float64
	Impressions float64
	CTR         float64
	Position    float64
}

// Summary holds the leaderboard statistics derived from a set of rows.
type Summary struct {
	TotalClicks      int64
	TotalImpressions int64
	AverageCTR       float64 // percent, not rounded
	AveragePosition  float64
}

// DateRange is an inclusive [Start, End] window in DateLayout.
type DateRange struct {
	Start string
	End   string
}

// Aggregate sums clicks and impressions and averages position across rows.
// Empty input yields a zero Summary.
func Aggregate(rows []Row) Summary {
	var clicks, impressions, position float64
	for _, r := range rows {
		clicks += r.Clicks
		impressions += r.Impressions
		position += r.Position
	}

	s := Summary{
		TotalClicks:      int64(math.Round(clicks)),
		TotalImpressions: int64(math.Round(impressions)),
	}
	if impressions > 0 {
		s.AverageCTR = clicks * 100 / impressions
	}
	if len(rows) > 0 {
		s.AveragePosition = position / float64(len(rows))
	}
	return s
}

// LastNDays returns the window from n days before now through now, in UTC.
func LastNDays(now time.Time, n int) DateRange {
	end := now.UTC()
	return DateRange{
		Start: end.AddDate(0, 0, -n).Format(DateLayout),
		End:   end.Format(DateLayout),
	}
}

// Last28Days is the window every leaderboard snapshot covers
func Last28Days(now time.Time) DateRange {
	return LastNDays(now, 28)
}
