package handover

import (
	"time"

	errors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/core/common/validation"
)

// CreateHandoverDTO is the request payload for creating a handover.
// TransferActivities additionally reassigns the listed activities to the
// receiving user.
type CreateHandoverDTO struct {
	ToUserID           int64   `json:"to_user_id"`
	HandoverDate       string  `json:"handover_date,omitempty"`
	ShiftSummary       string  `json:"shift_summary"`
	PendingTasks       string  `json:"pending_tasks,omitempty"`
	ImportantNotes     string  `json:"important_notes,omitempty"`
	ActivityIDs        []int64 `json:"activity_ids,omitempty"`
	TransferActivities bool    `json:"transfer_activities,omitempty"`
}

func (dto CreateHandoverDTO) Validate(fromUserID int64) *errors.AppError {
	v := validation.NewValidator()
	v.Field("to_user_id", dto.ToUserID).Required()
	v.Field("shift_summary", dto.ShiftSummary).Required().MaxLength(5000)
	v.Field("pending_tasks", dto.PendingTasks).MaxLength(5000)
	v.Field("important_notes", dto.ImportantNotes).MaxLength(5000)
	if err := v.Validate(); err != nil {
		return err
	}

	if dto.ToUserID == fromUserID {
		return errors.NewValidationFieldError("to_user_id", "cannot hand over to yourself", errors.ErrCodeSelfHandover)
	}

	if dto.HandoverDate != "" {
		if _, err := time.ParseInLocation("2006-01-02", dto.HandoverDate, time.Local); err != nil {
			return errors.NewValidationFieldError("handover_date", "handover date must be formatted YYYY-MM-DD", errors.ErrCodeInvalidDate)
		}
	}

	return nil
}

// ParsedDate returns the handover date, defaulting to today.
func (dto CreateHandoverDTO) ParsedDate(now time.Time) time.Time {
	if dto.HandoverDate != "" {
		if d, err := time.ParseInLocation("2006-01-02", dto.HandoverDate, time.Local); err == nil {
			return d
		}
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ListFilter narrows handover listings. VisibleToUserID restricts rows to
// handovers the user sent or received; zero means unrestricted.
type ListFilter struct {
	Date            *time.Time
	FromUserID      int64
	ToUserID        int64
	Acknowledged    *bool
	VisibleToUserID int64
	Limit           int
	Offset          int
}
