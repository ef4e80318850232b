package report

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"time"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	"github.com/henryantwi/activity-tracker/internal/auth"
)

// StatsRepository provides the aggregate queries that back the dashboard.
type StatsRepository interface {
	DashboardStats(ctx context.Context, scopeUserID int64, now time.Time) (DashboardStats, error)
}

// Service builds reports on top of the activity repository, reusing its
// filtered query rather than maintaining a second query path.
type Service struct {
	activities activity.Repository
	stats      StatsRepository
	policy     *auth.Policy
	logger     *slog.Logger
}

func NewService(activities activity.Repository, stats StatsRepository, policy *auth.Policy, logger *slog.Logger) *Service {
	return &Service{
		activities: activities,
		stats:      stats,
		policy:     policy,
		logger:     logger,
	}
}

func (s *Service) toFilter(q Query, dr DateRange) activity.ListFilter {
	return activity.ListFilter{
		Status:   q.Status,
		Priority: q.Priority,
		Category: q.Category,
		UserID:   q.UserID,
		DateFrom: &dr.Start,
		DateTo:   &dr.End,
	}
}

// ActivityReport resolves the date range, summarizes the full matched set,
// and returns one page of rows alongside the aggregates.
func (s *Service) ActivityReport(ctx context.Context, actor *auth.User, q Query) (*ActivityReport, error) {
	if denied := s.policy.CanViewReports(actor); denied != nil {
		s.logger.Warn("report access denied", "user_id", actor.ID)
		return nil, denied
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	dr := ResolveDateRange(q.Duration, q.StartDate, q.EndDate, now)

	// full matched set for the aggregates
	full := s.toFilter(q, dr)
	full.Limit = -1
	matched, total, err := s.activities.List(ctx, full)
	if err != nil {
		s.logger.Error("failed to build activity report", "error", err, "user_id", actor.ID)
		return nil, apperrors.NewInternalError("failed to build activity report", err)
	}
	summary := Summarize(matched, now)

	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	page := matched
	if q.Offset < len(matched) {
		end := q.Offset + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page = matched[q.Offset:end]
	} else {
		page = nil
	}

	return &ActivityReport{
		DateRange:  dr,
		Summary:    summary,
		Activities: page,
		Total:      total,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}, nil
}

// Dashboard returns the landing-page counters. Admins and managers see the
// whole team; everyone else sees only their own activities.
func (s *Service) Dashboard(ctx context.Context, actor *auth.User) (DashboardStats, error) {
	var scope int64
	if !actor.CanSearchAllActivities() {
		scope = actor.ID
	}

	stats, err := s.stats.DashboardStats(ctx, scope, time.Now())
	if err != nil {
		s.logger.Error("failed to load dashboard stats", "error", err, "user_id", actor.ID)
		return DashboardStats{}, apperrors.NewInternalError("failed to load dashboard stats", err)
	}
	return stats, nil
}

var csvHeader = []string{
	"id", "title", "status", "priority", "category",
	"due_date", "creator", "assignee", "created_at", "updates",
}

// ExportCSV streams the full filtered result set as plain CSV.
func (s *Service) ExportCSV(ctx context.Context, actor *auth.User, q Query, w io.Writer) error {
	if denied := s.policy.CanViewReports(actor); denied != nil {
		s.logger.Warn("report export denied", "user_id", actor.ID)
		return denied
	}
	if err := q.Validate(); err != nil {
		return err
	}

	dr := ResolveDateRange(q.Duration, q.StartDate, q.EndDate, time.Now())
	filter := s.toFilter(q, dr)
	filter.Limit = -1

	matched, _, err := s.activities.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to export activity report", "error", err, "user_id", actor.ID)
		return apperrors.NewInternalError("failed to export activity report", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, a := range matched {
		dueDate := ""
		if a.DueDate != nil {
			dueDate = a.DueDate.Format("2006-01-02")
		}
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.Title,
			a.Status,
			a.Priority,
			a.Category,
			dueDate,
			a.CreatorName,
			a.AssigneeName,
			a.CreatedAt.Format(time.RFC3339),
			strconv.FormatInt(a.UpdateCount, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
