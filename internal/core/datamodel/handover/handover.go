package handover

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivitySnapshot is the shape of one entry in a handover's activities_data
// column. Snapshots are captured at handover time and never refreshed, so a
// handover stays readable even after the activities it covered are deleted.
type ActivitySnapshot struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	CreatorName  string     `json:"creator_name"`
	AssigneeName string     `json:"assignee_name"`
}

// SnapshotList stores activity snapshots as a single JSONB array, written
// with one canonical encoding.
type SnapshotList []ActivitySnapshot

func (l SnapshotList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]ActivitySnapshot{})
	}
	return json.Marshal(l)
}

func (l *SnapshotList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported activities_data column type %T", value)
	}

	return json.Unmarshal(raw, l)
}

type DailyHandover struct {
	ID             int64        `gorm:"primaryKey"`
	FromUserID     int64        `gorm:"column:from_user_id;not null;index"`
	ToUserID       int64        `gorm:"column:to_user_id;not null;index"`
	HandoverDate   time.Time    `gorm:"column:handover_date;type:date;not null"`
	ShiftSummary   string       `gorm:"column:shift_summary;not null"`
	PendingTasks   string       `gorm:"column:pending_tasks"`
	ImportantNotes string       `gorm:"column:important_notes"`
	ActivitiesData SnapshotList `gorm:"column:activities_data;type:jsonb"`
	HandoverTime   time.Time    `gorm:"column:handover_time"`
	IsAcknowledged bool         `gorm:"column:is_acknowledged;default:false"`
	AcknowledgedAt *time.Time   `gorm:"column:acknowledged_at"`
	CreatedAt      time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (DailyHandover) TableName() string {
	return "daily_handovers"
}
