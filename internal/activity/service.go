package activity

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/auth"
	activityDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/activity"
	"github.com/henryantwi/activity-tracker/internal/core/events"
)

// Repository defines the data access methods for activities
type Repository interface {
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id int64) (*Activity, error)
	List(ctx context.Context, filter ListFilter) ([]*Activity, int64, error)
	Update(ctx context.Context, a *Activity) error
	SoftDelete(ctx context.Context, id int64) error

	// ApplyStatusChange updates the status column and appends the audit row
	// in one transaction. Partial application is never visible.
	ApplyStatusChange(ctx context.Context, activityID int64, newStatus string, update *activityDatamodel.ActivityUpdate) error

	ListUpdates(ctx context.Context, activityID int64, limit, offset int) ([]*Update, error)
}

// Service handles activity business logic
type Service struct {
	repo     Repository
	policy   *auth.Policy
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, policy *auth.Policy, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *Service) CreateActivity(ctx context.Context, actor *auth.User, dto CreateActivityDTO) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("activity validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	now := time.Now()
	a := &Activity{
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    dto.Priority,
		Category:    dto.Category,
		Status:      dto.Status,
		DueDate:     dto.DueDate,
		CreatedBy:   actor.ID,
		AssignedTo:  dto.AssignedTo,
		Metadata:    dto.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.AssignedTo == nil {
		// unassigned work defaults to its creator
		a.AssignedTo = &actor.ID
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create activity", "error", err, "user_id", actor.ID)
		return nil, apperrors.NewInternalError("failed to create activity", err)
	}

	s.logger.Info("activity created",
		"activity_id", a.ID,
		"user_id", actor.ID,
		"category", a.Category,
		"priority", a.Priority)

	return a, nil
}

func (s *Service) GetActivity(ctx context.Context, actor *auth.User, id int64) (*Activity, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if denied := s.policy.CanViewActivity(actor, ToDataModel(a)); denied != nil {
		s.logger.Warn("activity view denied", "activity_id", id, "user_id", actor.ID)
		return nil, denied
	}

	return a, nil
}

func (s *Service) ListActivities(ctx context.Context, actor *auth.User, filter ListFilter) ([]*Activity, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// members only see activities they created or are assigned to
	if !actor.CanSearchAllActivities() {
		filter.VisibleToUserID = actor.ID
	}

	activities, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list activities", "error", err, "user_id", actor.ID)
		return nil, 0, apperrors.NewInternalError("failed to list activities", err)
	}

	return activities, total, nil
}

func (s *Service) UpdateActivity(ctx context.Context, actor *auth.User, id int64, dto UpdateActivityDTO) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if denied := s.policy.CanUpdateActivity(actor, ToDataModel(a)); denied != nil {
		s.logger.Warn("activity update denied", "activity_id", id, "user_id", actor.ID)
		return nil, denied
	}

	if dto.Title != nil {
		a.Title = *dto.Title
	}
	if dto.Description != nil {
		a.Description = *dto.Description
	}
	if dto.Priority != nil {
		a.Priority = *dto.Priority
	}
	if dto.Category != nil {
		a.Category = *dto.Category
	}
	if dto.DueDate != nil {
		a.DueDate = dto.DueDate
	}
	if dto.AssignedTo != nil {
		a.AssignedTo = dto.AssignedTo
	}
	if dto.Metadata != nil {
		a.Metadata = dto.Metadata
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("failed to update activity", "error", err, "activity_id", id)
		return nil, apperrors.NewInternalError("failed to update activity", err)
	}

	s.logger.Info("activity updated", "activity_id", id, "user_id", actor.ID)
	return a, nil
}

func (s *Service) DeleteActivity(ctx context.Context, actor *auth.User, id int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if denied := s.policy.CanDeleteActivity(actor, ToDataModel(a)); denied != nil {
		s.logger.Warn("activity delete denied", "activity_id", id, "user_id", actor.ID)
		return denied
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("failed to delete activity", "error", err, "activity_id", id)
		return apperrors.NewInternalError("failed to delete activity", err)
	}

	s.logger.Info("activity deleted", "activity_id", id, "user_id", actor.ID)
	return nil
}

// ApplyStatusChange mutates only the status field and appends an audit
// record holding full before and after snapshots. Setting the same status
// again still records an audit row: the remarks may carry information even
// without a transition.
func (s *Service) ApplyStatusChange(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO, meta RequestMeta) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if denied := s.policy.CanUpdateActivity(actor, ToDataModel(a)); denied != nil {
		s.logger.Warn("status change denied", "activity_id", id, "user_id", actor.ID)
		return nil, denied
	}

	previous := a.Snapshot()
	previousStatus := a.Status

	a.Status = dto.Status
	a.UpdatedAt = time.Now()
	next := a.Snapshot()

	update := &activityDatamodel.ActivityUpdate{
		ActivityID:   a.ID,
		UserID:       actor.ID,
		Status:       dto.Status,
		Remarks:      dto.Remarks,
		PreviousData: previous,
		NewData:      next,
		UpdateTime:   a.UpdatedAt,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}

	if err := s.repo.ApplyStatusChange(ctx, a.ID, dto.Status, update); err != nil {
		s.logger.Error("failed to apply status change", "error", err, "activity_id", id)
		return nil, apperrors.NewInternalError("failed to apply status change", err)
	}

	s.logger.Info("activity status changed",
		"activity_id", a.ID,
		"user_id", actor.ID,
		"previous_status", previousStatus,
		"new_status", dto.Status)

	if s.eventBus != nil {
		event := events.NewActivityStatusChangedEvent(a.ID, actor.ID, previousStatus, dto.Status, dto.Remarks)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish status change event", "error", err, "activity_id", a.ID)
		}
	}

	return a, nil
}

func (s *Service) ListUpdates(ctx context.Context, actor *auth.User, activityID int64, limit, offset int) ([]*Update, error) {
	a, err := s.repo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if denied := s.policy.CanViewActivity(actor, ToDataModel(a)); denied != nil {
		return nil, denied
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	updates, err := s.repo.ListUpdates(ctx, activityID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list activity updates", "error", err, "activity_id", activityID)
		return nil, apperrors.NewInternalError("failed to list activity updates", err)
	}

	return updates, nil
}
