package handover

import (
	"time"

	handoverDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/handover"
)

// Handover is the domain entity for a shift transfer. FromUserName and
// ToUserName are denormalized from the users table on read.
type Handover struct {
	ID             int64                              `json:"id"`
	FromUserID     int64                              `json:"from_user_id"`
	ToUserID       int64                              `json:"to_user_id"`
	FromUserName   string                             `json:"from_user_name,omitempty"`
	ToUserName     string                             `json:"to_user_name,omitempty"`
	HandoverDate   time.Time                          `json:"handover_date"`
	ShiftSummary   string                             `json:"shift_summary"`
	PendingTasks   string                             `json:"pending_tasks,omitempty"`
	ImportantNotes string                             `json:"important_notes,omitempty"`
	ActivitiesData handoverDatamodel.SnapshotList     `json:"activities_data"`
	HandoverTime   time.Time                          `json:"handover_time"`
	IsAcknowledged bool                               `json:"is_acknowledged"`
	AcknowledgedAt *time.Time                         `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time                          `json:"created_at"`
}

func ToDataModel(h *Handover) *handoverDatamodel.DailyHandover {
	return &handoverDatamodel.DailyHandover{
		ID:             h.ID,
		FromUserID:     h.FromUserID,
		ToUserID:       h.ToUserID,
		HandoverDate:   h.HandoverDate,
		ShiftSummary:   h.ShiftSummary,
		PendingTasks:   h.PendingTasks,
		ImportantNotes: h.ImportantNotes,
		ActivitiesData: h.ActivitiesData,
		HandoverTime:   h.HandoverTime,
		IsAcknowledged: h.IsAcknowledged,
		AcknowledgedAt: h.AcknowledgedAt,
		CreatedAt:      h.CreatedAt,
	}
}

func FromDataModel(m *handoverDatamodel.DailyHandover) *Handover {
	return &Handover{
		ID:             m.ID,
		FromUserID:     m.FromUserID,
		ToUserID:       m.ToUserID,
		HandoverDate:   m.HandoverDate,
		ShiftSummary:   m.ShiftSummary,
		PendingTasks:   m.PendingTasks,
		ImportantNotes: m.ImportantNotes,
		ActivitiesData: m.ActivitiesData,
		HandoverTime:   m.HandoverTime,
		IsAcknowledged: m.IsAcknowledged,
		AcknowledgedAt: m.AcknowledgedAt,
		CreatedAt:      m.CreatedAt,
	}
}

// DailyReport aggregates one calendar day of handovers.
type DailyReport struct {
	Date          string      `json:"date"`
	Total         int64       `json:"total"`
	Acknowledged  int64       `json:"acknowledged"`
	Pending       int64       `json:"pending"`
	ActivityCount int64       `json:"activity_count"`
	Handovers     []*Handover `json:"handovers"`
}
