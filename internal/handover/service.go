package handover

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/henryantwi/activity-tracker/internal"
	"github.com/henryantwi/activity-tracker/internal/activity"
	"github.com/henryantwi/activity-tracker/internal/auth"
	handoverDatamodel "github.com/henryantwi/activity-tracker/internal/core/datamodel/handover"
	"github.com/henryantwi/activity-tracker/internal/core/events"
)

// Repository defines the data access methods for handovers
type Repository interface {
	// CreateWithTransfer persists the handover and, when transferToUserID is
	// set, reassigns the listed activities in the same transaction.
	CreateWithTransfer(ctx context.Context, h *Handover, transferToUserID *int64, activityIDs []int64) error

	GetByID(ctx context.Context, id int64) (*Handover, error)
	List(ctx context.Context, filter ListFilter) ([]*Handover, int64, error)
	Acknowledge(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Service handles the handover workflow
type Service struct {
	repo       Repository
	activities activity.Repository
	policy     *auth.Policy
	eventBus   *events.EventBus
	logger     *slog.Logger
}

func NewService(repo Repository, activities activity.Repository, policy *auth.Policy, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		policy:     policy,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreateHandover captures immutable snapshots of the listed activities and
// persists the handover. Activity ids that no longer resolve are silently
// skipped; the snapshot records what existed at handover time.
func (s *Service) CreateHandover(ctx context.Context, actor *auth.User, dto CreateHandoverDTO) (*Handover, error) {
	if err := dto.Validate(actor.ID); err != nil {
		s.logger.Warn("handover validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	now := time.Now()

	snapshots := make(handoverDatamodel.SnapshotList, 0, len(dto.ActivityIDs))
	resolvedIDs := make([]int64, 0, len(dto.ActivityIDs))
	for _, id := range dto.ActivityIDs {
		a, err := s.activities.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrActivityNotFound) {
				s.logger.Info("skipping missing activity in handover", "activity_id", id)
				continue
			}
			return nil, apperrors.NewInternalError("failed to resolve handover activities", err)
		}
		snapshots = append(snapshots, handoverDatamodel.ActivitySnapshot{
			ID:           a.ID,
			Title:        a.Title,
			Status:       a.Status,
			Priority:     a.Priority,
			DueDate:      a.DueDate,
			CreatorName:  a.CreatorName,
			AssigneeName: a.AssigneeName,
		})
		resolvedIDs = append(resolvedIDs, a.ID)
	}

	h := &Handover{
		FromUserID:     actor.ID,
		ToUserID:       dto.ToUserID,
		HandoverDate:   dto.ParsedDate(now),
		ShiftSummary:   dto.ShiftSummary,
		PendingTasks:   dto.PendingTasks,
		ImportantNotes: dto.ImportantNotes,
		ActivitiesData: snapshots,
		HandoverTime:   now,
		IsAcknowledged: false,
		AcknowledgedAt: nil,
		CreatedAt:      now,
	}

	var transferTo *int64
	if dto.TransferActivities {
		transferTo = &dto.ToUserID
	}

	if err := s.repo.CreateWithTransfer(ctx, h, transferTo, resolvedIDs); err != nil {
		s.logger.Error("failed to create handover", "error", err, "user_id", actor.ID)
		return nil, apperrors.NewInternalError("failed to create handover", err)
	}

	s.logger.Info("handover created",
		"handover_id", h.ID,
		"from_user_id", h.FromUserID,
		"to_user_id", h.ToUserID,
		"activity_count", len(snapshots),
		"transferred", dto.TransferActivities)

	if s.eventBus != nil {
		event := events.NewHandoverCreatedEvent(h.ID, h.FromUserID, h.ToUserID, len(snapshots))
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish handover created event", "error", err, "handover_id", h.ID)
		}
	}

	return h, nil
}

func (s *Service) GetHandover(ctx context.Context, actor *auth.User, id int64) (*Handover, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdministrator() && h.FromUserID != actor.ID && h.ToUserID != actor.ID {
		return nil, apperrors.NewForbiddenError("you can only view handovers you sent or received")
	}

	return h, nil
}

func (s *Service) ListHandovers(ctx context.Context, actor *auth.User, filter ListFilter) ([]*Handover, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if !actor.IsAdministrator() {
		filter.VisibleToUserID = actor.ID
	}

	handovers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list handovers", "error", err, "user_id", actor.ID)
		return nil, 0, apperrors.NewInternalError("failed to list handovers", err)
	}
	return handovers, total, nil
}

// Acknowledge marks the handover received. A second call is rejected by the
// policy's not-yet-acknowledged guard and leaves the original timestamp
// untouched.
func (s *Service) Acknowledge(ctx context.Context, actor *auth.User, id int64) (*Handover, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if denied := s.policy.CanAcknowledgeHandover(actor, ToDataModel(h)); denied != nil {
		s.logger.Warn("handover acknowledge denied", "handover_id", id, "user_id", actor.ID)
		return nil, denied
	}

	now := time.Now()
	if err := s.repo.Acknowledge(ctx, id, now); err != nil {
		s.logger.Error("failed to acknowledge handover", "error", err, "handover_id", id)
		return nil, apperrors.NewInternalError("failed to acknowledge handover", err)
	}

	h.IsAcknowledged = true
	h.AcknowledgedAt = &now

	s.logger.Info("handover acknowledged", "handover_id", id, "user_id", actor.ID)

	if s.eventBus != nil {
		event := events.NewHandoverAcknowledgedEvent(id, actor.ID, now)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish handover acknowledged event", "error", err, "handover_id", id)
		}
	}

	return h, nil
}

func (s *Service) DeleteHandover(ctx context.Context, actor *auth.User, id int64) error {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if denied := s.policy.CanModifyHandover(actor, ToDataModel(h)); denied != nil {
		s.logger.Warn("handover delete denied", "handover_id", id, "user_id", actor.ID)
		return denied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete handover", "error", err, "handover_id", id)
		return apperrors.NewInternalError("failed to delete handover", err)
	}

	s.logger.Info("handover deleted", "handover_id", id, "user_id", actor.ID)
	return nil
}

// DailyReport summarizes one calendar day of handovers.
func (s *Service) DailyReport(ctx context.Context, actor *auth.User, date time.Time) (*DailyReport, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	filter := ListFilter{Date: &day, Limit: -1}
	if !actor.IsAdministrator() {
		filter.VisibleToUserID = actor.ID
	}

	handovers, _, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to build daily handover report", "error", err, "user_id", actor.ID)
		return nil, apperrors.NewInternalError("failed to build daily handover report", err)
	}

	report := &DailyReport{
		Date:      day.Format("2006-01-02"),
		Handovers: handovers,
	}
	for _, h := range handovers {
		report.Total++
		if h.IsAcknowledged {
			report.Acknowledged++
		} else {
			report.Pending++
		}
		report.ActivityCount += int64(len(h.ActivitiesData))
	}

	return report, nil
}
