package report

import (
	"math"
	"time"

	"github.com/henryantwi/activity-tracker/internal/activity"
)

// Duration keys accepted by the report query builder.
const (
	DurationToday      = "today"
	DurationYesterday  = "yesterday"
	DurationLast7Days  = "last_7_days"
	DurationLast30Days = "last_30_days"
	DurationLast90Days = "last_90_days"
	DurationThisMonth  = "this_month"
	DurationLastMonth  = "last_month"
	DurationThisYear   = "this_year"
	DurationLastYear   = "last_year"
	DurationCustom     = "custom"
)

// DateRange is a resolved reporting window, inclusive on both ends. Label
// records which duration key actually produced the range, so callers can see
// when an input fell back to the default.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Summary aggregates a set of activities for reporting.
type Summary struct {
	Total                 int64            `json:"total"`
	ByStatus              map[string]int64 `json:"by_status"`
	ByPriority            map[string]int64 `json:"by_priority"`
	ByCategory            map[string]int64 `json:"by_category"`
	Overdue               int64            `json:"overdue"`
	CompletionRate        float64          `json:"completion_rate"`
	TotalUpdates          int64            `json:"total_updates"`
	AvgUpdatesPerActivity float64          `json:"avg_updates_per_activity"`
}

// Summarize computes the aggregate view of a result set. Counts use each
// activity's denormalized update count, so no extra queries are needed.
func Summarize(activities []*activity.Activity, now time.Time) Summary {
	s := Summary{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	var completed int64
	for _, a := range activities {
		s.Total++
		s.ByStatus[a.Status]++
		s.ByPriority[a.Priority]++
		s.ByCategory[a.Category]++
		s.TotalUpdates += a.UpdateCount

		if a.Status == activity.StatusCompleted {
			completed++
		}
		if a.IsOverdue(now) {
			s.Overdue++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = round1(float64(completed) / float64(s.Total) * 100)
		s.AvgUpdatesPerActivity = round1(float64(s.TotalUpdates) / float64(s.Total))
	}

	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// DashboardStats is the at-a-glance view for the landing page.
type DashboardStats struct {
	TotalActivities     int64 `json:"total_activities"`
	Pending             int64 `json:"pending"`
	InProgress          int64 `json:"in_progress"`
	CompletedToday      int64 `json:"completed_today"`
	Overdue             int64 `json:"overdue"`
	HighPriorityPending int64 `json:"high_priority_pending"`
}
