package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/henryantwi/activity-tracker/internal/report"
)

// StatsRepository runs the dashboard aggregates with sqlx; the CASE
// expressions collapse everything into one table scan.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) report.StatsRepository {
	return &StatsRepository{db: db}
}

type dashboardRow struct {
	TotalActivities     int64 `db:"total_activities"`
	Pending             int64 `db:"pending"`
	InProgress          int64 `db:"in_progress"`
	CompletedToday      int64 `db:"completed_today"`
	Overdue             int64 `db:"overdue"`
	HighPriorityPending int64 `db:"high_priority_pending"`
}

const dashboardQuery = `
SELECT
	COUNT(*) AS total_activities,
	COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
	COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0) AS in_progress,
	COALESCE(SUM(CASE WHEN status = 'completed' AND updated_at >= $2 THEN 1 ELSE 0 END), 0) AS completed_today,
	COALESCE(SUM(CASE WHEN due_date < $3 AND status NOT IN ('completed', 'cancelled') THEN 1 ELSE 0 END), 0) AS overdue,
	COALESCE(SUM(CASE WHEN priority = 'high' AND status = 'pending' THEN 1 ELSE 0 END), 0) AS high_priority_pending
FROM activities
WHERE deleted_at IS NULL
  AND ($1 = 0 OR created_by = $1 OR assigned_to = $1)`

// DashboardStats scopes counts to one user when scopeUserID is non-zero.
func (r *StatsRepository) DashboardStats(ctx context.Context, scopeUserID int64, now time.Time) (report.DashboardStats, error) {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var row dashboardRow
	err := r.db.GetContext(ctx, &row, dashboardQuery, scopeUserID, startOfToday, now)
	if err != nil {
		return report.DashboardStats{}, err
	}

	return report.DashboardStats{
		TotalActivities:     row.TotalActivities,
		Pending:             row.Pending,
		InProgress:          row.InProgress,
		CompletedToday:      row.CompletedToday,
		Overdue:             row.Overdue,
		HighPriorityPending: row.HighPriorityPending,
	}, nil
}
