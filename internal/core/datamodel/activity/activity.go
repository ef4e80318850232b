package activity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Metadata is an open key-value map stored as a JSONB column. It is decoded
// exactly once when read and encoded exactly once when written.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	return json.Unmarshal(raw, m)
}

// StateSnapshot captures the full state of an activity at one point in time.
// Audit records store a pair of these so every status transition is
// reconstructable without replaying history.
type StateSnapshot struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	CreatedBy   int64      `json:"created_by"`
	AssignedTo  *int64     `json:"assigned_to"`
	Metadata    Metadata   `json:"metadata,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (s StateSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StateSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = StateSnapshot{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported snapshot column type %T", value)
	}

	return json.Unmarshal(raw, s)
}

type Activity struct {
	ID          int64          `gorm:"primaryKey"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description"`
	Priority    string         `gorm:"column:priority;default:medium"`
	Category    string         `gorm:"column:category;not null"`
	Status      string         `gorm:"column:status;default:pending"`
	DueDate     *time.Time     `gorm:"column:due_date;type:date"`
	CreatedBy   int64          `gorm:"column:created_by;not null"`
	AssignedTo  *int64         `gorm:"column:assigned_to"`
	Metadata    Metadata       `gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Activity) TableName() string {
	return "activities"
}

type ActivityUpdate struct {
	ID           int64         `gorm:"primaryKey"`
	ActivityID   int64         `gorm:"column:activity_id;not null;index"`
	UserID       int64         `gorm:"column:user_id;not null"`
	Status       string        `gorm:"column:status;not null"`
	Remarks      string        `gorm:"column:remarks"`
	PreviousData StateSnapshot `gorm:"column:previous_data;type:jsonb"`
	NewData      StateSnapshot `gorm:"column:new_data;type:jsonb"`
	UpdateTime   time.Time     `gorm:"column:update_time"`
	IPAddress    string        `gorm:"column:ip_address"`
	UserAgent    string        `gorm:"column:user_agent"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (ActivityUpdate) TableName() string {
	return "activity_updates"
}
