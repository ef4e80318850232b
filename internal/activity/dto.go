package activity

import (
	"time"

	errors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/core/common/validation"
	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
)

// CreateActivityDTO is the request payload for creating an activity.
type CreateActivityDTO struct {
	Title       string                     `json:"title"`
	Description string                     `json:"description,omitempty"`
	Priority    string                     `json:"priority,omitempty"`
	Category    string                     `json:"category"`
	Status      string                     `json:"status,omitempty"`
	DueDate     *time.Time                 `json:"due_date,omitempty"`
	AssignedTo  *int64                     `json:"assigned_to,omitempty"`
	Metadata    activityDatamodel.Metadata `json:"metadata,omitempty"`
}

func (dto CreateActivityDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(255)
	v.Field("description", dto.Description).MaxLength(2000)
	v.Field("category", dto.Category).Required().OneOf(errors.ErrCodeInvalidCategory, ValidCategories...)
	v.Field("priority", dto.Priority).OneOf(errors.ErrCodeInvalidPriority, ValidPriorities...)
	v.Field("status", dto.Status).OneOf(errors.ErrCodeInvalidStatus, ValidStatuses...)
	return v.Validate()
}

// UpdateActivityDTO carries partial updates; nil pointers leave the field
// untouched. Status is deliberately absent, status moves only through the
// status endpoint so every transition is audited.
type UpdateActivityDTO struct {
	Title       *string                    `json:"title,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Priority    *string                    `json:"priority,omitempty"`
	Category    *string                    `json:"category,omitempty"`
	DueDate     *time.Time                 `json:"due_date,omitempty"`
	AssignedTo  *int64                     `json:"assigned_to,omitempty"`
	Metadata    activityDatamodel.Metadata `json:"metadata,omitempty"`
}

func (dto UpdateActivityDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.Title != nil {
		v.Field("title", *dto.Title).Required().MaxLength(255)
	}
	if dto.Description != nil {
		v.Field("description", *dto.Description).MaxLength(2000)
	}
	if dto.Priority != nil {
		v.Field("priority", *dto.Priority).Required().OneOf(errors.ErrCodeInvalidPriority, ValidPriorities...)
	}
	if dto.Category != nil {
		v.Field("category", *dto.Category).Required().OneOf(errors.ErrCodeInvalidCategory, ValidCategories...)
	}
	return v.Validate()
}

// UpdateStatusDTO is the payload for a status transition.
type UpdateStatusDTO struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

func (dto UpdateStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", dto.Status).Required().OneOf(errors.ErrCodeInvalidStatus, ValidStatuses...)
	v.Field("remarks", dto.Remarks).MaxLength(1000)
	return v.Validate()
}

// ListFilter narrows activity listings. A zero VisibleToUserID means no
// visibility restriction (admins and managers).
type ListFilter struct {
	Status          string
	Priority        string
	Category        string
	UserID          int64
	VisibleToUserID int64
	Search          string
	DateFrom        *time.Time
	DateTo          *time.Time
	Limit           int
	Offset          int
}

func (f ListFilter) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(errors.ErrCodeInvalidStatus, ValidStatuses...)
	v.Field("priority", f.Priority).OneOf(errors.ErrCodeInvalidPriority, ValidPriorities...)
	v.Field("category", f.Category).OneOf(errors.ErrCodeInvalidCategory, ValidCategories...)
	return v.Validate()
}
