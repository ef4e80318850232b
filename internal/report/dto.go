package report

import (
	"time"

	errors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	"github.com/henryantwi/activity-tracker/internal/core/common/validation"
)

// Query carries the report parameters parsed from the request.
type Query struct {
	Duration  string
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	Priority  string
	Category  string
	UserID    int64
	Limit     int
	Offset    int
}

func (q Query) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", q.Status).OneOf(errors.ErrCodeInvalidStatus, activity.ValidStatuses...)
	v.Field("priority", q.Priority).OneOf(errors.ErrCodeInvalidPriority, activity.ValidPriorities...)
	v.Field("category", q.Category).OneOf(errors.ErrCodeInvalidCategory, activity.ValidCategories...)
	if err := v.Validate(); err != nil {
		return err
	}

	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return errors.NewValidationFieldError("end_date", "end date must not be before start date", errors.ErrCodeInvalidDateRange)
	}
	return nil
}

// ActivityReport is the full reporting response: the resolved window, the
// aggregate summary over everything that matched, and one page of rows.
type ActivityReport struct {
	DateRange  DateRange            `json:"date_range"`
	Summary    Summary              `json:"summary"`
	Activities []*activity.Activity `json:"activities"`
	Total      int64                `json:"total"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}
