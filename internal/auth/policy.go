package auth

import (
	apperrors "github.com/henryantwi/activity-tracker/internal"
	activitymodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
	handovermodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/handover"
)

// Policy holds the access rules as pure predicates, one per entity and
// action. Each predicate returns nil when the action is allowed, or a
// forbidden error carrying the denial reason. Predicates never touch
// storage; callers load the target entity first.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

func isOwnerOrAssignee(u *User, a *activitymodel.Activity) bool {
	if a.CreatedBy == u.ID {
		return true
	}
	return a.AssignedTo != nil && *a.AssignedTo == u.ID
}

// CanViewActivity allows admins and managers to see everything; everyone
// else only sees activities they created or are assigned to.
func (p *Policy) CanViewActivity(u *User, a *activitymodel.Activity) *apperrors.AppError {
	if u == nil {
		return apperrors.NewForbiddenError("no authenticated user")
	}
	if u.CanSearchAllActivities() {
		return nil
	}
	if isOwnerOrAssignee(u, a) {
		return nil
	}
	return apperrors.NewForbiddenError("you can only view activities you created or are assigned to")
}

func (p *Policy) CanUpdateActivity(u *User, a *activitymodel.Activity) *apperrors.AppError {
	if u == nil {
		return apperrors.NewForbiddenError("no authenticated user")
	}
	if u.IsAdministrator() || u.IsManager() {
		return nil
	}
	if isOwnerOrAssignee(u, a) {
		return nil
	}
	return apperrors.NewForbiddenError("you can only update activities you created or are assigned to")
}

// CanDeleteActivity is stricter than update: being the assignee alone is not
// enough to delete someone else's activity.
func (p *Policy) CanDeleteActivity(u *User, a *activitymodel.Activity) *apperrors.AppError {
	if u == nil {
		return apperrors.NewForbiddenError("no authenticated user")
	}
	if u.IsAdministrator() || u.IsManager() {
		return nil
	}
	if a.CreatedBy == u.ID {
		return nil
	}
	return apperrors.NewForbiddenError("only the creator or an administrator can delete an activity")
}

// CanViewReports gates the reporting surface to admins and managers.
func (p *Policy) CanViewReports(u *User) *apperrors.AppError {
	if u == nil {
		return apperrors.NewForbiddenError("no authenticated user")
	}
	if u.CanSearchAllActivities() {
		return nil
	}
	return apperrors.NewForbiddenError("reports are available to administrators and managers only")
}

func (p *Policy) CanModifyHandover(u *User, h *handovermodel.DailyHandover) *apperrors.AppError {
	if u == nil {
		return apperrors.NewForbiddenError("no authenticated user")
	}
	if u.IsAdministrator() {
		return nil
	}
	if h.FromUserID != u.ID {
		return apperrors.NewForbiddenError("only the handover creator or an administrator can modify a handover")
	}
	if h.IsAcknowledged {
		return apperrors.NewForbiddenError("an acknowledged handover can no longer be modified")
	}
	return nil
}

func (p *Policy) CanAcknowledgeHandover(u *User, h *handovermodel.DailyHandover) *apperrors.AppError {
	if u == nil {
		return apperrors.NewForbiddenError("no authenticated user")
	}
	if h.IsAcknowledged {
		// second acknowledge attempts land here, for admins too
		return apperrors.NewForbiddenError("handover has already been acknowledged")
	}
	if u.IsAdministrator() {
		return nil
	}
	if h.ToUserID != u.ID {
		return apperrors.NewForbiddenError("only the receiving user or an administrator can acknowledge a handover")
	}
	return nil
}
