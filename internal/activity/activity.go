package activity

import (
	"time"

	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
)

// Status lifecycle values for an activity.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	CategoryDevelopment   = "development"
	CategoryTesting       = "testing"
	CategoryDocumentation = "documentation"
	CategoryMeeting       = "meeting"
	CategoryResearch      = "research"
	CategoryMaintenance   = "maintenance"
	CategoryOther         = "other"
)

var (
	ValidStatuses   = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
	ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
	ValidCategories = []string{
		CategoryDevelopment, CategoryTesting, CategoryDocumentation,
		CategoryMeeting, CategoryResearch, CategoryMaintenance, CategoryOther,
	}
)

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Activity is the domain entity handed to the transport layer. CreatorName
// and AssigneeName are denormalized from the users table on read.
type Activity struct {
	ID           int64                      `json:"id"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description,omitempty"`
	Priority     string                     `json:"priority"`
	Category     string                     `json:"category"`
	Status       string                     `json:"status"`
	DueDate      *time.Time                 `json:"due_date,omitempty"`
	CreatedBy    int64                      `json:"created_by"`
	AssignedTo   *int64                     `json:"assigned_to,omitempty"`
	CreatorName  string                     `json:"creator_name,omitempty"`
	AssigneeName string                     `json:"assignee_name,omitempty"`
	Metadata     activityDatamodel.Metadata `json:"metadata,omitempty"`
	UpdateCount  int64                      `json:"update_count"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// IsOverdue reports whether the due date has passed while the activity is
// still open. Activities without a due date are never overdue.
func (a *Activity) IsOverdue(now time.Time) bool {
	if a.DueDate == nil {
		return false
	}
	if a.Status == StatusCompleted || a.Status == StatusCancelled {
		return false
	}
	return a.DueDate.Before(now)
}

// Snapshot freezes the activity's current state for an audit record.
func (a *Activity) Snapshot() activityDatamodel.StateSnapshot {
	return activityDatamodel.StateSnapshot{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Priority:    a.Priority,
		Category:    a.Category,
		Status:      a.Status,
		DueDate:     a.DueDate,
		CreatedBy:   a.CreatedBy,
		AssignedTo:  a.AssignedTo,
		Metadata:    a.Metadata,
		UpdatedAt:   a.UpdatedAt,
	}
}

// Update is one immutable audit record of a status transition.
type Update struct {
	ID           int64                           `json:"id"`
	ActivityID   int64                           `json:"activity_id"`
	UserID       int64                           `json:"user_id"`
	UserName     string                          `json:"user_name,omitempty"`
	Status       string                          `json:"status"`
	Remarks      string                          `json:"remarks,omitempty"`
	PreviousData activityDatamodel.StateSnapshot `json:"previous_data"`
	NewData      activityDatamodel.StateSnapshot `json:"new_data"`
	UpdateTime   time.Time                       `json:"update_time"`
	IPAddress    string                          `json:"ip_address,omitempty"`
	UserAgent    string                          `json:"user_agent,omitempty"`
}

// RequestMeta carries HTTP request attribution into audit records.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

func ToDataModel(a *Activity) *activityDatamodel.Activity {
	return &activityDatamodel.Activity{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Priority:    a.Priority,
		Category:    a.Category,
		Status:      a.Status,
		DueDate:     a.DueDate,
		CreatedBy:   a.CreatedBy,
		AssignedTo:  a.AssignedTo,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromDataModel(m *activityDatamodel.Activity) *Activity {
	return &Activity{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Priority:    m.Priority,
		Category:    m.Category,
		Status:      m.Status,
		DueDate:     m.DueDate,
		CreatedBy:   m.CreatedBy,
		AssignedTo:  m.AssignedTo,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func UpdateFromDataModel(m *activityDatamodel.ActivityUpdate) *Update {
	return &Update{
		ID:           m.ID,
		ActivityID:   m.ActivityID,
		UserID:       m.UserID,
		Status:       m.Status,
		Remarks:      m.Remarks,
		PreviousData: m.PreviousData,
		NewData:      m.NewData,
		UpdateTime:   m.UpdateTime,
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
	}
}
